package models

import "time"

// MedicalRecord holds the optional health information of a student
type MedicalRecord struct {
	BloodType             *string `json:"bloodType,omitempty" db:"blood_type"`
	Allergies             *string `json:"allergies,omitempty" db:"allergies"`
	Medications           *string `json:"medications,omitempty" db:"medications"`
	Conditions            *string `json:"conditions,omitempty" db:"conditions"`
	EmergencyContactName  *string `json:"emergencyContactName,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergencyContactPhone,omitempty" db:"emergency_contact_phone"`
	Notes                 *string `json:"notes,omitempty" db:"medical_notes"`
}

// Student is a child attending activities; belongs to at most one group at a time
type Student struct {
	ID           int64         `json:"id" db:"id"`
	FirstName    string        `json:"firstName" db:"first_name"`
	LastName     string        `json:"lastName" db:"last_name"`
	DNI          string        `json:"dni" db:"dni"`
	BirthDate    time.Time     `json:"birthDate" db:"birth_date"`
	TutorID      int64         `json:"tutorId" db:"tutor_id"`
	DisciplineID *int64        `json:"disciplineId,omitempty" db:"discipline_id"`
	GroupID      *int64        `json:"groupId,omitempty" db:"group_id"`
	Medical      MedicalRecord `json:"medical"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
