package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("user already registered for this event")
)

type Registration struct {
	ID uint `gorm:"primaryKey"`

	EventID      uint  `gorm:"not null;uniqueIndex:idx_registrations_event_leader,priority:1"`
	TeamLeaderID uint  `gorm:"not null;uniqueIndex:idx_registrations_event_leader,priority:2"`
	IsVerified   *bool // nil = pending, true = verified, false = rejected

	Event      Event                `gorm:"foreignKey:EventID"`
	TeamLeader User                 `gorm:"foreignKey:TeamLeaderID"`
	Members    []RegistrationMember `gorm:"foreignKey:RegistrationID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// RegistrationMember holds one row per team participant, leader
// included. The (event_id, user_id) unique index is what enforces
// "at most one registration per user per event" atomically; the
// service-level existence check only exists for a friendlier error.
type RegistrationMember struct {
	ID uint `gorm:"primaryKey"`

	RegistrationID uint `gorm:"not null;index"`
	EventID        uint `gorm:"not null;uniqueIndex:idx_registration_members_event_user,priority:1"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_registration_members_event_user,priority:2"`

	User User `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Insert creates the registration and its member rows (leader first) in
// one transaction. A unique violation on either index means some
// participant already holds a registration for the event.
func (d *RegistrationDAO) Insert(ctx context.Context, registration Registration, memberIDs []uint) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&registration).Error; err != nil {
			return err
		}

		members := make([]RegistrationMember, 0, len(memberIDs)+1)
		members = append(members, RegistrationMember{
			RegistrationID: registration.ID,
			EventID:        registration.EventID,
			UserID:         registration.TeamLeaderID,
		})
		for _, id := range memberIDs {
			members = append(members, RegistrationMember{
				RegistrationID: registration.ID,
				EventID:        registration.EventID,
				UserID:         id,
			})
		}

		return tx.Create(&members).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			(strings.Contains(pgErr.Message, "idx_registrations_event_leader") ||
				strings.Contains(pgErr.Message, "idx_registration_members_event_user")) {
			return Registration{}, ErrAlreadyRegistered
		}

		return Registration{}, err
	}

	return d.FindByID(ctx, registration.ID)
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).
		Preload("TeamLeader").
		Preload("Members.User").
		First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

// SetVerified is a conditional update on is_verified, safe to repeat.
func (d *RegistrationDAO) SetVerified(ctx context.Context, id uint, verified bool) error {
	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("id = ?", id).
		Update("is_verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

func (d *RegistrationDAO) FindByEventID(ctx context.Context, eventID uint, verifiedOnly bool) ([]Registration, error) {
	var registrations []Registration

	query := d.db.WithContext(ctx).
		Preload("TeamLeader").
		Preload("Members.User").
		Where("event_id = ?", eventID)
	if verifiedOnly {
		query = query.Where("is_verified = ?", true)
	}

	result := query.Order("created_at DESC").Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

// FindByUserID returns registrations where the user participates as
// leader or member; the member rows cover both since the leader also
// has one. An eventID of zero means all events.
func (d *RegistrationDAO) FindByUserID(ctx context.Context, userID, eventID uint) ([]Registration, error) {
	var registrations []Registration

	query := d.db.WithContext(ctx).
		Preload("TeamLeader").
		Preload("Members.User").
		Joins("JOIN registration_members ON registration_members.registration_id = registrations.id").
		Where("registration_members.user_id = ?", userID)
	if eventID != 0 {
		query = query.Where("registrations.event_id = ?", eventID)
	}

	result := query.Order("registrations.created_at DESC").Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) ExistsForUser(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&RegistrationMember{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *RegistrationDAO) CountVerifiedByEventID(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("event_id = ? AND is_verified = ?", eventID, true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
