package codecamp

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the principal model. The auth core treats it as read-only: the
// verifier only ever compares against PasswordHash.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName     string       `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string       `bun:"last_name,notnull" json:"last_name,omitempty"`
	Username      string       `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string       `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string       `bun:"password_hash" json:"-"`
	Claims        []*UserClaim `bun:"rel:has-many,join:id=user_id" json:"claims,omitempty"`
	CreatedAt     *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time   `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// UserClaim is a custom (type, value) claim attached to a user, e.g.
// SuperUser=True. Nothing stops a row from repeating a registered claim
// type; the issuer appends it anyway.
type UserClaim struct {
	bun.BaseModel `bun:"table:user_claims,alias:uclm"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User     `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	ClaimType     string    `bun:"claim_type,notnull" json:"claim_type,omitempty"`
	ClaimValue    string    `bun:"claim_value,notnull" json:"claim_value,omitempty"`
}

// Camp is a code camp event.
type Camp struct {
	bun.BaseModel `bun:"table:camps,alias:cmp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Moniker       string     `bun:"moniker,notnull,unique" json:"moniker,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Location      string     `bun:"location" json:"location,omitempty"`
	EventDate     *time.Time `bun:"event_date,nullzero" json:"event_date,omitempty"`
	Length        int        `bun:"length,notnull,default:1" json:"length,omitempty"`
	Speakers      []*Speaker `bun:"rel:has-many,join:id=camp_id" json:"speakers,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Speaker presents at a camp.
type Speaker struct {
	bun.BaseModel `bun:"table:speakers,alias:spk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CampID        uuid.UUID  `bun:"camp_id,notnull,type:uuid" json:"camp_id,omitempty"`
	Camp          *Camp      `bun:"rel:belongs-to,join:camp_id=id" json:"-"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	CompanyName   string     `bun:"company_name" json:"company_name,omitempty"`
	WebsiteURL    string     `bun:"website_url" json:"website_url,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	Talks         []*Talk    `bun:"rel:has-many,join:id=speaker_id" json:"talks,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Talk is a session given by a speaker.
type Talk struct {
	bun.BaseModel `bun:"table:talks,alias:tlk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	SpeakerID     uuid.UUID  `bun:"speaker_id,notnull,type:uuid" json:"speaker_id,omitempty"`
	Speaker       *Speaker   `bun:"rel:belongs-to,join:speaker_id=id" json:"-"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Abstract      string     `bun:"abstract" json:"abstract,omitempty"`
	Category      string     `bun:"category" json:"category,omitempty"`
	Room          string     `bun:"room" json:"room,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
