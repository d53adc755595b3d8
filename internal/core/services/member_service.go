package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/pagination"
)

// Member errors
var (
	ErrRegistrationNumberExists = domain.NewError(domain.ErrDuplicateEntry, "registration number already exists")
	ErrMemberNameRequired       = domain.NewError(domain.ErrInvalidInput, "first and last name are required")
	ErrDeceasedPermanent        = domain.NewError(domain.ErrRuleViolation, "a deceased member cannot be reactivated")
	ErrInvalidMemberStatus      = domain.NewError(domain.ErrInvalidInput, "status must be active, inactive or deceased")
)

// MemberService manages member registration and lifecycle
type MemberService struct {
	store *repositories.Store
}

// NewMemberService creates a new member service
func NewMemberService(store *repositories.Store) *MemberService {
	return &MemberService{store: store}
}

// NextOfKin is one next-of-kin slot
type NextOfKin struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
}

// MemberInput is used for registration and profile updates.
// FullName is split into parts when the parts are not given.
type MemberInput struct {
	StationID          string    `json:"station_id"`
	RegistrationNumber string    `json:"registration_number"`
	FullName           string    `json:"full_name"`
	FirstName          string    `json:"first_name"`
	MiddleName         string    `json:"middle_name"`
	LastName           string    `json:"last_name"`
	Gender             string    `json:"gender"`
	DateOfBirth        string    `json:"date_of_birth"`
	DateJoined         string    `json:"date_joined"`
	Address            string    `json:"address"`
	PhoneNumber        string    `json:"phone_number"`
	Email              string    `json:"email"`
	EmployeeID         string    `json:"employee_id"`
	GradeLevel         string    `json:"grade_level"`
	PhotoPath          string    `json:"photo_path"`
	NextOfKin1         NextOfKin `json:"next_of_kin_1"`
	NextOfKin2         NextOfKin `json:"next_of_kin_2"`
}

// StatusInput changes a member's lifecycle status
type StatusInput struct {
	Status       string `json:"status" validate:"required"`
	DeceasedDate string `json:"deceased_date"`
}

func (in *MemberInput) names() (first, middle, last string) {
	first, middle, last = strings.TrimSpace(in.FirstName), strings.TrimSpace(in.MiddleName), strings.TrimSpace(in.LastName)
	if first == "" && last == "" && in.FullName != "" {
		return domain.SplitFullName(in.FullName)
	}
	return first, middle, last
}

// Register creates a member numbered NFC0001, NFC0002, ...
func (s *MemberService) Register(ctx context.Context, actor Actor, input *MemberInput) (*models.MemberResponse, error) {
	first, middle, last := input.names()
	if first == "" || last == "" {
		return nil, ErrMemberNameRequired
	}
	gender, err := genderOf(input.Gender)
	if err != nil {
		return nil, err
	}
	dob, err := ParseDate(input.DateOfBirth)
	if err != nil {
		return nil, err
	}
	joined, err := ParseDate(input.DateJoined)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		StationID:   strings.TrimSpace(input.StationID),
		FirstName:   first,
		MiddleName:  middle,
		LastName:    last,
		Gender:      gender,
		DateOfBirth: dob,
		DateJoined:  dayOf(timeOrNow(joined)),
		IsActive:    true,
		CreatedBy:   actor.Name(),
		ModifiedBy:  actor.Name(),
	}
	applyProfile(member, input)

	err = s.store.WithTx(ctx, func(tx *repositories.Store) error {
		station, err := tx.Stations.GetByID(ctx, member.StationID)
		if err != nil {
			return notFound(err, ErrStationNotFound)
		}
		if !station.Enabled {
			return ErrStationDisabled
		}

		n, err := tx.Settings.NextCounter(ctx, domain.SettingNextMemberNumber)
		if err != nil {
			return err
		}
		member.MemberID = fmt.Sprintf("NFC%04d", n)

		member.RegistrationNumber = strings.TrimSpace(input.RegistrationNumber)
		if member.RegistrationNumber == "" {
			member.RegistrationNumber = member.MemberID
		}
		exists, err := tx.Members.ExistsByRegistrationNumber(ctx, member.RegistrationNumber)
		if err != nil {
			return err
		}
		if exists {
			return ErrRegistrationNumberExists
		}

		if err := tx.Members.Create(ctx, member); err != nil {
			return duplicate(err, ErrRegistrationNumberExists)
		}
		member.Station = station
		return audit(ctx, tx, actor, models.AuditCreate, "members", member.MemberID, nil, member)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Member registered: %s %s", member.MemberID, member.FullName())
	return member.ToResponse(), nil
}

// applyProfile copies the free-form profile fields
func applyProfile(m *models.Member, in *MemberInput) {
	m.Address = strings.TrimSpace(in.Address)
	m.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	m.Email = strings.TrimSpace(in.Email)
	m.EmployeeID = strings.TrimSpace(in.EmployeeID)
	m.GradeLevel = strings.TrimSpace(in.GradeLevel)
	m.PhotoPath = strings.TrimSpace(in.PhotoPath)

	m.NOK1Name = in.NextOfKin1.Name
	m.NOK1Relationship = in.NextOfKin1.Relationship
	m.NOK1Address = in.NextOfKin1.Address
	m.NOK1Phone = in.NextOfKin1.Phone
	m.NOK2Name = in.NextOfKin2.Name
	m.NOK2Relationship = in.NextOfKin2.Relationship
	m.NOK2Address = in.NextOfKin2.Address
	m.NOK2Phone = in.NextOfKin2.Phone
}

// Update replaces the member's profile. Identity and status are not touched.
func (s *MemberService) Update(ctx context.Context, actor Actor, memberID string, input *MemberInput) (*models.MemberResponse, error) {
	var member *models.Member
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		member, err = loadMember(ctx, tx, memberID)
		if err != nil {
			return err
		}
		before := *member
		before.Station = nil

		first, middle, last := input.names()
		if first == "" || last == "" {
			return ErrMemberNameRequired
		}
		member.FirstName, member.MiddleName, member.LastName = first, middle, last

		if input.Gender != "" {
			if member.Gender, err = genderOf(input.Gender); err != nil {
				return err
			}
		}
		if input.DateOfBirth != "" {
			if member.DateOfBirth, err = ParseDate(input.DateOfBirth); err != nil {
				return err
			}
		}
		if input.DateJoined != "" {
			joined, err := ParseDate(input.DateJoined)
			if err != nil {
				return err
			}
			member.DateJoined = dayOf(*joined)
		}

		if sid := strings.TrimSpace(input.StationID); sid != "" && sid != member.StationID {
			station, err := tx.Stations.GetByID(ctx, sid)
			if err != nil {
				return notFound(err, ErrStationNotFound)
			}
			if !station.Enabled {
				return ErrStationDisabled
			}
			member.StationID = sid
			member.Station = station
		}

		if reg := strings.TrimSpace(input.RegistrationNumber); reg != "" && reg != member.RegistrationNumber {
			exists, err := tx.Members.ExistsByRegistrationNumber(ctx, reg)
			if err != nil {
				return err
			}
			if exists {
				return ErrRegistrationNumberExists
			}
			member.RegistrationNumber = reg
		}

		applyProfile(member, input)
		member.ModifiedBy = actor.Name()

		if err := tx.Members.Update(ctx, member); err != nil {
			return duplicate(err, ErrRegistrationNumberExists)
		}
		after := *member
		after.Station = nil
		return audit(ctx, tx, actor, models.AuditUpdate, "members", memberID, before, after)
	})
	if err != nil {
		return nil, err
	}
	return member.ToResponse(), nil
}

// ChangeStatus moves a member between active, inactive and deceased.
// Deceased is final.
func (s *MemberService) ChangeStatus(ctx context.Context, actor Actor, memberID string, input *StatusInput) (*models.MemberResponse, error) {
	status := domain.MemberStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	switch status {
	case domain.MemberActive, domain.MemberInactive, domain.MemberDeceased:
	default:
		return nil, ErrInvalidMemberStatus
	}
	deceasedDate, err := ParseDate(input.DeceasedDate)
	if err != nil {
		return nil, err
	}

	var member *models.Member
	err = s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		member, err = loadMember(ctx, tx, memberID)
		if err != nil {
			return err
		}
		previous := member.Status()
		if previous == status {
			return nil
		}
		if previous == domain.MemberDeceased {
			return ErrDeceasedPermanent
		}

		switch status {
		case domain.MemberActive:
			member.IsActive = true
		case domain.MemberInactive:
			member.IsActive = false
		case domain.MemberDeceased:
			d := dayOf(timeOrNow(deceasedDate))
			member.IsDeceased = true
			member.IsActive = false
			member.DeceasedDate = &d
		}
		member.ModifiedBy = actor.Name()

		if err := tx.Members.Update(ctx, member); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "members", memberID,
			map[string]string{"status": string(previous)}, map[string]string{"status": string(status)})
	})
	if err != nil {
		return nil, err
	}

	if status == domain.MemberDeceased {
		log.Printf("⚠️ Member %s marked deceased", memberID)
	}
	return member.ToResponse(), nil
}

// Get returns one member
func (s *MemberService) Get(ctx context.Context, memberID string) (*models.MemberResponse, error) {
	member, err := loadMember(ctx, s.store, memberID)
	if err != nil {
		return nil, err
	}
	return member.ToResponse(), nil
}

// List returns a page of members
func (s *MemberService) List(ctx context.Context, filter repositories.MemberFilter, params *pagination.Params) ([]*models.MemberResponse, int64, error) {
	members, total, err := s.store.Members.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toMemberResponses(members), total, nil
}

// Search matches member ID or any part of the name
func (s *MemberService) Search(ctx context.Context, query string, limit int) ([]*models.MemberResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.MemberResponse{}, nil
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	members, err := s.store.Members.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toMemberResponses(members), nil
}

// Summary returns the balance summary row of a member
func (s *MemberService) Summary(ctx context.Context, memberID string) (*models.MemberSummary, error) {
	summary, err := s.store.Members.Summary(ctx, memberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return summary, nil
}

// Summaries returns a page of summary rows
func (s *MemberService) Summaries(ctx context.Context, filter repositories.MemberFilter, params *pagination.Params) ([]*models.MemberSummary, int64, error) {
	return s.store.Members.ListSummaries(ctx, filter, params.Offset, params.Limit)
}

func toMemberResponses(members []*models.Member) []*models.MemberResponse {
	out := make([]*models.MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	return out
}

// genderOf validates an optional gender; blank is stored as NULL
func genderOf(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !domain.Gender(s).IsValid() {
		return nil, domain.ErrInvalidGender
	}
	return &s, nil
}
