package review

import (
	"errors"
	"time"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrNotAttended     = errors.New("only members who booked a finished class can review it")
	ErrAlreadyReviewed = errors.New("class already reviewed")
	ErrNotAuthor       = errors.New("review belongs to another member")
)

type Review struct {
	ID         int       `db:"id" json:"id"`
	ClassID    int       `db:"class_id" json:"class_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	Rating     int       `db:"rating" json:"rating" example:"5"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	MemberName string    `db:"member_name" json:"member_name"`
	ClassName  string    `db:"class_name" json:"class_name"`
}

// ClassReviews is the public review page of a class.
type ClassReviews struct {
	ClassID       int      `json:"class_id"`
	ClassName     string   `json:"class_name"`
	Reviews       []Review `json:"reviews"`
	TotalReviews  int      `json:"total_reviews"`
	AverageRating float64  `json:"average_rating" example:"4.5"`
}

// Average returns the mean rating rounded to two decimals, or 0 with no reviews.
func Average(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return float64(int(avg*100+0.5)) / 100
}

type Request struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment" binding:"omitempty,max=1000" example:"Great energy"`
}
