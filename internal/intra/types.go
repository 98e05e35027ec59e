package intra

import "time"

// User is the subset of /v2/users/:login the planner reads.
type User struct {
	ID          int    `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"displayname"`
}

type Cursus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CursusUser holds a student's enrolment in one cursus, including the black hole date.
type CursusUser struct {
	ID           int     `json:"id"`
	CursusID     int     `json:"cursus_id"`
	Cursus       Cursus  `json:"cursus"`
	Grade        *string `json:"grade"`
	Level        float64 `json:"level"`
	BeginAt      *string `json:"begin_at"`
	BlackholedAt *string `json:"blackholed_at"`
}

type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Difficulty  int    `json:"difficulty"`
	Description string `json:"description"`
}

// ProjectUser is one team attempt of a student on a project.
type ProjectUser struct {
	ID        int        `json:"id"`
	Status    string     `json:"status"`
	FinalMark *int       `json:"final_mark"`
	MarkedAt  *time.Time `json:"marked_at"`
	Project   Project    `json:"project"`
}
