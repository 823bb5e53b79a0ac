package models

// RoleType defines the account role
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleVolunteer RoleType = "VOLUNTEER"
	RoleTutor     RoleType = "TUTOR"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleVolunteer, RoleTutor:
		return true
	}
	return false
}

// Weekday is a day of the week as stored in schedule and availability slots
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// Index returns the position of the day within the week (Monday = 0), or -1 if unknown
func (d Weekday) Index() int {
	if i, ok := weekdayOrder[d]; ok {
		return i
	}
	return -1
}

// Valid reports whether d is a known weekday
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// TimeSlot is a weekly recurring interval, e.g. MONDAY 17:00-18:30.
// Times are 24-hour "HH:MM" strings so they compare lexicographically.
type TimeSlot struct {
	Day      Weekday `json:"day" binding:"required" example:"MONDAY"`
	TimeFrom string  `json:"timeFrom" binding:"required,hhmm" example:"17:00"`
	TimeTo   string  `json:"timeTo" binding:"required,hhmm" example:"18:30"`
}
