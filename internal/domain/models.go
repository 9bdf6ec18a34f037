// Package domain defines the persistence models for the multi-tenant
// conversational-support platform: tenants (users) and their domains,
// chatbot and helpdesk configuration, customers, chat rooms and messages,
// billing, campaigns, and bookings. These types are mapped with GORM and
// form the core data layer of the application.
package domain

import (
	"time"
)

// User is a platform tenant. Each user owns domains, campaigns, and exactly
// one billing record. Identity is established by an external provider; the
// provider's id is stored in IdentityID and is globally unique.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - FullName: display name supplied at sign-up.
//   - IdentityID: external identity-provider id; globally unique.
//   - Type: account type (e.g. "owner", "student").
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	FullName   string    `json:"full_name"   gorm:"type:varchar(255);not null"`
	IdentityID string    `json:"identity_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_users_identity"`
	Type       string    `json:"type"        gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Billing holds the subscription plan and prepaid credit balance for one
// user. Exactly one row exists per user; credits never go negative and are
// decremented only by successful bot-served turns (see repo.DebitCredits).
type Billing struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Plan      Plan      `json:"plan"    gorm:"type:varchar(16);not null;default:'STANDARD';check:plan IN ('STANDARD','PRO','ULTIMATE')"`
	Credits   int       `json:"credits" gorm:"not null;default:0;check:credits >= 0"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:ux_billings_user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the owning tenant. Billing is cascade-deleted with the user.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Billing.
func (Billing) TableName() string { return "billings" }

// Domain is a tenant-owned workspace (storefront, product line, …) that a
// chatbot and helpdesk are attached to. UserID is immutable after creation;
// deleting a domain cascades to its chatbot, helpdesk entries, filter
// questions, customers, and transitively their rooms, messages, and
// bookings.
type Domain struct {
	ID         string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Name       string    `json:"name"    gorm:"type:varchar(255);not null"`
	Icon       string    `json:"icon"    gorm:"type:varchar(255)"`
	UserID     string    `json:"user_id" gorm:"type:char(36);not null;index:idx_domains_user"`
	CampaignID *string   `json:"campaign_id,omitempty" gorm:"type:char(36)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Domain.
func (Domain) TableName() string { return "domains" }

// ChatBot holds the bot configuration for a domain: welcome message,
// theming, and whether the static helpdesk is surfaced to customers.
// At most one row exists per domain (unique index on DomainID).
type ChatBot struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	WelcomeMessage string    `json:"welcome_message" gorm:"type:text"`
	Icon           string    `json:"icon"            gorm:"type:varchar(255)"`
	Background     string    `json:"background"      gorm:"type:varchar(32)"`
	TextColor      string    `json:"text_color"      gorm:"type:varchar(32)"`
	HelpdeskOn     bool      `json:"helpdesk_on"     gorm:"not null;default:false"`
	DomainID       string    `json:"domain_id"       gorm:"type:char(36);not null;uniqueIndex:ux_chatbots_domain"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Domain Domain `json:"-" gorm:"foreignKey:DomainID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatBot.
func (ChatBot) TableName() string { return "chatbots" }

// HelpDesk is a curated question/answer pair used as the bot's static
// knowledge for a domain. Answer is always non-empty (enforced by the
// service layer on create).
type HelpDesk struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Question  string    `json:"question"  gorm:"type:text;not null"`
	Answer    string    `json:"answer"    gorm:"type:text;not null"`
	DomainID  string    `json:"domain_id" gorm:"type:char(36);not null;index:idx_helpdesk_domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Domain Domain `json:"-" gorm:"foreignKey:DomainID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HelpDesk.
func (HelpDesk) TableName() string { return "help_desk" }

// FilterQuestion records a customer question the bot could not answer.
// Answered stays NULL until an operator fills it in; the bot never writes
// this column. Promotion into HelpDesk is a separate, explicit operation.
type FilterQuestion struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Question  string    `json:"question"  gorm:"type:text;not null"`
	Answered  *string   `json:"answered,omitempty" gorm:"type:text"`
	DomainID  string    `json:"domain_id" gorm:"type:char(36);not null;index:idx_filter_questions_domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Domain Domain `json:"-" gorm:"foreignKey:DomainID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for FilterQuestion.
func (FilterQuestion) TableName() string { return "filter_questions" }

// Customer is an end customer of one domain. Identity is scoped to the
// domain: the same email under two domains is two distinct customers
// (unique index on domain_id + email).
type Customer struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex:ux_customers_domain_email"`
	DomainID  string    `json:"domain_id" gorm:"type:char(36);not null;index:idx_customers_domain;uniqueIndex:ux_customers_domain_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Domain Domain `json:"-" gorm:"foreignKey:DomainID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Customer.
func (Customer) TableName() string { return "customers" }

// ChatRoom is a conversation between one customer and the bot or a human
// operator. Live reports that a human operator is engaged; Mailed reports
// that the resolution notification has been handed to the mailer. At most
// one room per customer exists (the room is reopened rather than replaced),
// and room history is never deleted on close.
//
// The Live/Mailed flags plus the presence of an unanswered FilterQuestion
// encode the room lifecycle; domain.StateOf derives the explicit RoomState.
type ChatRoom struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Live       bool      `json:"live"        gorm:"not null;default:false"`
	Mailed     bool      `json:"mailed"      gorm:"not null;default:false"`
	CustomerID string    `json:"customer_id" gorm:"type:char(36);not null;uniqueIndex:ux_rooms_customer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer Customer `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatRoom.
func (ChatRoom) TableName() string { return "chat_rooms" }

// ChatMessage is a single utterance within a room, authored by the "user"
// (customer) or the "assistant" (bot or operator). Messages are append-only
// and ordered by creation time; Seen transitions false→true exactly once
// and never reverses.
type ChatMessage struct {
	ID         string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	Role       string    `json:"role"    gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Seen       bool      `json:"seen"    gorm:"not null;default:false"`
	ChatRoomID string    `json:"chat_room_id" gorm:"type:char(36);not null;index:idx_room_msgs,priority:1"`
	CreatedAt  time.Time `json:"created_at"   gorm:"index:idx_room_msgs,priority:2"`
	UpdatedAt  time.Time `json:"updated_at"`

	// ChatRoom is the parent conversation. Messages are cascade-deleted
	// if their room is removed.
	ChatRoom ChatRoom `json:"-" gorm:"foreignKey:ChatRoomID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// Campaign is a bulk-outreach list owned by a tenant. The customer list is
// a snapshot (CampaignCustomer rows written at add time), not a live join.
type Campaign struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"    gorm:"type:varchar(255);not null"`
	Template  *string   `json:"template,omitempty" gorm:"type:text"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index:idx_campaigns_user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Campaign.
func (Campaign) TableName() string { return "campaigns" }

// CampaignCustomer is one snapshotted recipient of a campaign. The email is
// copied at add time so later customer edits do not change the list.
type CampaignCustomer struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	CampaignID string    `json:"campaign_id" gorm:"type:char(36);not null;index:idx_campaign_customers;uniqueIndex:ux_campaign_customer"`
	CustomerID string    `json:"customer_id" gorm:"type:char(36);not null;uniqueIndex:ux_campaign_customer"`
	Email      string    `json:"email"       gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `json:"created_at"`

	Campaign Campaign `json:"-" gorm:"foreignKey:CampaignID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CampaignCustomer.
func (CampaignCustomer) TableName() string { return "campaign_customers" }

// Booking is a reserved appointment slot. The (domain_id, date, slot)
// triple is unique: concurrent attempts on the same slot yield exactly one
// success (see repo.CreateBooking).
type Booking struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Date       string    `json:"date"        gorm:"type:varchar(10);not null;uniqueIndex:ux_bookings_slot,priority:2"`
	Slot       string    `json:"slot"        gorm:"type:varchar(16);not null;uniqueIndex:ux_bookings_slot,priority:3"`
	Email      string    `json:"email"       gorm:"type:varchar(255);not null"`
	CustomerID string    `json:"customer_id" gorm:"type:char(36);not null;index:idx_bookings_customer"`
	DomainID   string    `json:"domain_id"   gorm:"type:char(36);not null;index:idx_bookings_domain;uniqueIndex:ux_bookings_slot,priority:1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer Customer `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Domain   Domain   `json:"-" gorm:"foreignKey:DomainID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }
