package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Stats are denormalized counters kept in lockstep with the rows that
// justify them. UpvotesReceived and DownvotesReceived are reserved: voting
// does not touch them.
type Stats struct {
	QuestionsAsked    int `gorm:"not null;default:0" json:"questionsAsked"`
	AnswersGiven      int `gorm:"not null;default:0" json:"answersGiven"`
	CommentsPosted    int `gorm:"not null;default:0" json:"commentsPosted"`
	UpvotesReceived   int `gorm:"not null;default:0" json:"upvotesReceived"`
	DownvotesReceived int `gorm:"not null;default:0" json:"downvotesReceived"`
	AcceptedAnswers   int `gorm:"not null;default:0" json:"acceptedAnswers"`
}

type Preferences struct {
	EmailNotifications bool   `gorm:"not null;default:true" json:"emailNotifications"`
	PushNotifications  bool   `gorm:"not null;default:true" json:"pushNotifications"`
	Theme              string `gorm:"type:varchar(8);not null;default:system" json:"theme"`
	Phone              string `gorm:"type:varchar(32)" json:"phone,omitempty"`
}

type User struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username   string `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email      string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email,omitempty"`
	Password   string `gorm:"not null" json:"-"`
	Avatar     string `json:"avatar"`
	Bio        string `gorm:"type:varchar(500)" json:"bio,omitempty"`
	Location   string `gorm:"type:varchar(100)" json:"location,omitempty"`
	Website    string `gorm:"type:varchar(200)" json:"website,omitempty"`
	Reputation int    `gorm:"not null;default:1;check:reputation >= 0" json:"reputation"`
	Role       Role   `gorm:"type:varchar(16);not null;default:user" json:"role,omitempty"`
	IsVerified bool   `gorm:"not null;default:false" json:"isVerified"`

	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	Stats       Stats       `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`

	LastActive time.Time `json:"lastActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	tx.Statement.SetColumn("LastActive", time.Now().UTC())
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthorColumns is the projection used when a user is embedded as an author.
var AuthorColumns = []string{"id", "username", "avatar", "reputation"}
