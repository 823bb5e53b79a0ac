package models

// DashboardStats is the admin overview of the organisation
type DashboardStats struct {
	Volunteers struct {
		Total    int64 `json:"total"`
		Active   int64 `json:"active"`
		Inactive int64 `json:"inactive"`
	} `json:"volunteers"`
	Tutors   int64 `json:"tutors"`
	Students struct {
		Total      int64 `json:"total"`
		Assigned   int64 `json:"assigned"`
		Unassigned int64 `json:"unassigned"`
	} `json:"students"`
	Groups struct {
		Total int64 `json:"total"`
		Full  int64 `json:"full"`
	} `json:"groups"`
	Disciplines int64 `json:"disciplines"`
}
