// Package services holds the business logic of the API.
//
// Services defined in this package:
//   - AuthService: login, token rotation, logout and password changes
//   - DisciplineService: the activity catalogue
//   - VolunteerService: volunteer profiles, availability and group assignment
//   - TutorService: tutor accounts
//   - StudentService: students, medical records and group membership
//   - GroupService: groups, schedules and volunteer rosters
//   - ProgressService: daily progress records written by volunteers
//   - RatingService: tutor ratings of volunteers
//   - AnnouncementService: announcements and read receipts
//   - MessageService: direct messages between allowed contacts
//   - DashboardService: aggregate counters for administrators
package services
