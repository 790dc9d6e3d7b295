package models

import "time"

// IsAvailable reports whether now falls inside [start, end]. Content with an
// open schedule bound is never available.
func IsAvailable(start, end *time.Time, now time.Time) bool {
	if start == nil || end == nil {
		return false
	}
	return !now.Before(*start) && !now.After(*end)
}

// IsActive reports whether now falls inside [start, end].
func IsActive(start, end, now time.Time) bool {
	return !now.Before(start) && !now.After(end)
}

// CertificateEligible holds once every content of a non-empty course is completed.
func CertificateEligible(totalContents, completed int64) bool {
	return totalContents > 0 && completed >= totalContents
}

// AvailableSlots returns the remaining seats, or nil for an unlimited course.
func AvailableSlots(maxStudents *int, members int64) *int {
	if maxStudents == nil {
		return nil
	}
	left := *maxStudents - int(members)
	if left < 0 {
		left = 0
	}
	return &left
}

// HasCapacity reports whether adding n members keeps the course within its limit.
func HasCapacity(maxStudents *int, members int64, n int) bool {
	if maxStudents == nil {
		return true
	}
	return members+int64(n) <= int64(*maxStudents)
}

// CompletionRate is the share of (member, content) pairs completed, in percent.
func CompletionRate(completions, members, contents int64) float64 {
	if members == 0 || contents == 0 {
		return 0
	}
	rate := float64(completions) / float64(members*contents) * 100
	if rate > 100 {
		rate = 100
	}
	return rate
}

type CourseStats struct {
	CourseID          uint    `json:"course_id"`
	CourseName        string  `json:"course_name"`
	MemberCount       int64   `json:"member_count"`
	ContentCount      int64   `json:"content_count"`
	CommentCount      int64   `json:"comment_count"`
	ApprovedComments  int64   `json:"approved_comments"`
	AnnouncementCount int64   `json:"announcement_count"`
	CompletionCount   int64   `json:"completion_count"`
	CompletionRate    float64 `json:"completion_rate"`
	AvailableSlots    *int    `json:"available_slots"`
}

type UserStats struct {
	UserID            uint   `json:"user_id"`
	Username          string `json:"username"`
	CoursesJoined     int64  `json:"courses_joined"`
	CoursesTaught     int64  `json:"courses_taught"`
	CommentsPosted    int64  `json:"comments_posted"`
	ContentsCompleted int64  `json:"contents_completed"`
	CoursesCompleted  int64  `json:"courses_completed"`
}
