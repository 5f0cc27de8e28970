package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile visibility levels.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityFriends = "friends"
)

type Preferences struct {
	Theme              string `json:"theme" gorm:"column:theme"`
	Language           string `json:"language" gorm:"column:language"`
	Timezone           string `json:"timezone" gorm:"column:timezone"`
	EmailNotifications bool   `json:"emailNotifications" gorm:"column:email_notifications"`
	PushNotifications  bool   `json:"pushNotifications" gorm:"column:push_notifications"`
	TodoReminders      bool   `json:"todoReminders" gorm:"column:todo_reminders"`
}

type Stats struct {
	TotalTodos     int       `json:"totalTodos" gorm:"column:total_todos"`
	CompletedTodos int       `json:"completedTodos" gorm:"column:completed_todos"`
	StreakDays     int       `json:"streakDays" gorm:"column:streak_days"`
	LastActive     time.Time `json:"lastActive" gorm:"column:last_active"`
}

type SocialLinks struct {
	Github    string `json:"github" gorm:"column:github"`
	Linkedin  string `json:"linkedin" gorm:"column:linkedin"`
	Twitter   string `json:"twitter" gorm:"column:twitter"`
	Instagram string `json:"instagram" gorm:"column:instagram"`
}

type Privacy struct {
	ProfileVisibility string `json:"profileVisibility" gorm:"column:profile_visibility"`
	ShowStats         bool   `json:"showStats" gorm:"column:show_stats"`
	AllowMessages     bool   `json:"allowMessages" gorm:"column:allow_messages"`
}

// UserProfile is the one-to-one extension of a User. It is created lazily on
// first access, so every read path must tolerate its absence.
type UserProfile struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID   `json:"ownerId" gorm:"type:uuid;uniqueIndex;not null"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DisplayName string      `json:"displayName"`
	Bio         string      `json:"bio"`
	Avatar      string      `json:"avatar"`
	Phone       string      `json:"phone"`
	Location    string      `json:"location"`
	Website     string      `json:"website"`
	Preferences Preferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	Stats       Stats       `json:"stats" gorm:"embedded;embeddedPrefix:stat_"`
	SocialLinks SocialLinks `json:"socialLinks" gorm:"embedded;embeddedPrefix:social_"`
	Privacy     Privacy     `json:"privacy" gorm:"embedded;embeddedPrefix:privacy_"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultProfile builds the profile created on first access. The display name
// is the local part of the owner's email address.
func DefaultProfile(ownerID uuid.UUID, email string) *UserProfile {
	displayName, _, _ := strings.Cut(email, "@")
	return &UserProfile{
		OwnerID:     ownerID,
		DisplayName: displayName,
		Preferences: Preferences{
			Theme:              "auto",
			Language:           "en",
			Timezone:           "UTC",
			EmailNotifications: true,
			PushNotifications:  true,
			TodoReminders:      true,
		},
		Stats: Stats{LastActive: time.Now()},
		Privacy: Privacy{
			ProfileVisibility: VisibilityPrivate,
			ShowStats:         false,
			AllowMessages:     false,
		},
	}
}

// PublicProfile is the restricted projection served to identities other than
// the owner. Privacy settings are never included; stats only when the owner
// opted in.
type PublicProfile struct {
	OwnerID     uuid.UUID   `json:"ownerId"`
	DisplayName string      `json:"displayName"`
	Bio         string      `json:"bio"`
	Avatar      string      `json:"avatar"`
	Location    string      `json:"location"`
	Website     string      `json:"website"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Stats       *Stats      `json:"stats,omitempty"`
}

// Public returns the cross-owner view of the profile.
func (p *UserProfile) Public() PublicProfile {
	out := PublicProfile{
		OwnerID:     p.OwnerID,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		Avatar:      p.Avatar,
		Location:    p.Location,
		Website:     p.Website,
		SocialLinks: p.SocialLinks,
	}
	if p.Privacy.ShowStats {
		stats := p.Stats
		out.Stats = &stats
	}
	return out
}
