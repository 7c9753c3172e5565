package courses

import "time"

// Course is owned by exactly one lecturer. LecturerName is joined in on
// reads; StudentCount is only populated by the admin listing.
type Course struct {
	ID           int64     `json:"id"`
	CourseCode   string    `json:"course_code"`
	CourseTitle  string    `json:"course_title"`
	LecturerID   int64     `json:"lecturer_id"`
	LecturerName string    `json:"lecturer_name,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Faculty      *string   `json:"faculty,omitempty"`
	Level        *string   `json:"level,omitempty"`
	Semester     *string   `json:"semester,omitempty"`
	StudentCount int       `json:"student_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EnrolledStudent is one roster row for a course.
type EnrolledStudent struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	RegNumber  *string   `json:"reg_number,omitempty"`
	Email      string    `json:"email"`
	Level      *string   `json:"level,omitempty"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
