package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository/dao"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("student is already registered for this event")
	ErrStorageFailure       = dao.ErrStorageFailure
)

type RegistrationDAO interface {
	FindAll(ctx context.Context) ([]dao.Registration, error)
	Mutate(ctx context.Context, fn func(regs []dao.Registration) ([]dao.Registration, error)) error
}

// RegistrationGuard inspects the located record before a patch is applied.
// Returning an error aborts the update and leaves storage untouched.
type RegistrationGuard func(reg domain.Registration) error

type RegistrationRepository struct {
	dao RegistrationDAO
	now func() time.Time
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
		now: time.Now,
	}
}

func (r *RegistrationRepository) GetAll(ctx context.Context) ([]domain.Registration, error) {
	regs, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(regs), nil
}

func (r *RegistrationRepository) GetByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	return r.filter(ctx, func(reg dao.Registration) bool {
		return reg.EventID == eventID
	})
}

func (r *RegistrationRepository) GetByStudent(ctx context.Context, mssv string) ([]domain.Registration, error) {
	return r.filter(ctx, func(reg dao.Registration) bool {
		return reg.MSSV == mssv
	})
}

func (r *RegistrationRepository) filter(ctx context.Context, keep func(dao.Registration) bool) ([]domain.Registration, error) {
	regs, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	matched := make([]domain.Registration, 0)
	for _, reg := range regs {
		if keep(reg) {
			matched = append(matched, r.daoToDomain(reg))
		}
	}

	return matched, nil
}

// FindByQRToken tolerates slightly damaged scans: it tries an exact match,
// then a case-insensitive one, then rebuilds (mssv, eventId) from the token.
func (r *RegistrationRepository) FindByQRToken(ctx context.Context, token string) (domain.Registration, error) {
	regs, err := r.dao.FindAll(ctx)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	if i := indexByToken(regs, token); i >= 0 {
		return r.daoToDomain(regs[i]), nil
	}

	for _, key := range tokenKeys(token) {
		for _, reg := range regs {
			if strings.EqualFold(reg.MSSV, key.mssv) && strings.EqualFold(reg.EventID, key.eventID) {
				return r.daoToDomain(reg), nil
			}
		}
	}

	return domain.Registration{}, ErrRegistrationNotFound
}

func (r *RegistrationRepository) FindByStudentAndEvent(ctx context.Context, mssv, eventID string) (domain.Registration, error) {
	regs, err := r.dao.FindAll(ctx)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	if i := indexByKey(regs, mssv, eventID); i >= 0 {
		return r.daoToDomain(regs[i]), nil
	}

	return domain.Registration{}, ErrRegistrationNotFound
}

// Save merges reg into the stored record for the same (mssv, eventId), or
// appends it. Zero-valued fields of reg do not overwrite stored values.
// Every error returned wraps ErrStorageFailure and leaves storage untouched.
func (r *RegistrationRepository) Save(ctx context.Context, reg domain.Registration) error {
	incoming := r.domainToDao(reg)

	err := r.dao.Mutate(ctx, func(regs []dao.Registration) ([]dao.Registration, error) {
		if i := indexByKey(regs, incoming.MSSV, incoming.EventID); i >= 0 {
			regs[i] = mergeRegistration(regs[i], incoming)
			return regs, nil
		}

		return append(regs, incoming), nil
	})
	if err != nil {
		return fmt.Errorf("r.dao.Mutate -> %w", err)
	}

	return nil
}

// Create appends reg as a new record. It fails with ErrAlreadyRegistered when
// the (mssv, eventId) pair already has one; the check and the insert happen
// under the same lock.
func (r *RegistrationRepository) Create(ctx context.Context, reg domain.Registration) error {
	incoming := r.domainToDao(reg)

	err := r.dao.Mutate(ctx, func(regs []dao.Registration) ([]dao.Registration, error) {
		if indexByKey(regs, incoming.MSSV, incoming.EventID) >= 0 {
			return nil, ErrAlreadyRegistered
		}

		return append(regs, incoming), nil
	})
	if err != nil {
		return fmt.Errorf("r.dao.Mutate -> %w", err)
	}

	return nil
}

// UpdateByQRToken applies patch to the record whose token matches exactly or
// case-insensitively and stamps UpdatedAt. guards run on the stored record
// while the collection is locked.
func (r *RegistrationRepository) UpdateByQRToken(ctx context.Context, token string, patch domain.RegistrationPatch, guards ...RegistrationGuard) (domain.Registration, error) {
	return r.patch(ctx, patch, guards, func(regs []dao.Registration) int {
		return indexByToken(regs, token)
	})
}

// UpdateByKey applies patch to the record for (mssv, eventId). Unlike Save,
// the patch can reset fields to their zero value.
func (r *RegistrationRepository) UpdateByKey(ctx context.Context, mssv, eventID string, patch domain.RegistrationPatch, guards ...RegistrationGuard) (domain.Registration, error) {
	return r.patch(ctx, patch, guards, func(regs []dao.Registration) int {
		return indexByKey(regs, mssv, eventID)
	})
}

func (r *RegistrationRepository) patch(
	ctx context.Context,
	patch domain.RegistrationPatch,
	guards []RegistrationGuard,
	locate func([]dao.Registration) int,
) (domain.Registration, error) {
	var updated dao.Registration

	err := r.dao.Mutate(ctx, func(regs []dao.Registration) ([]dao.Registration, error) {
		i := locate(regs)
		if i < 0 {
			return nil, ErrRegistrationNotFound
		}

		reg := r.daoToDomain(regs[i])
		for _, guard := range guards {
			if err := guard(reg); err != nil {
				return nil, err
			}
		}
		patch.Apply(&reg)
		now := r.now()
		reg.UpdatedAt = &now

		regs[i] = r.domainToDao(reg)
		updated = regs[i]

		return regs, nil
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Mutate -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

// Delete removes every record for the pair. Deleting nothing is not an error.
func (r *RegistrationRepository) Delete(ctx context.Context, mssv, eventID string) error {
	err := r.dao.Mutate(ctx, func(regs []dao.Registration) ([]dao.Registration, error) {
		kept := regs[:0]
		for _, reg := range regs {
			if reg.MSSV == mssv && reg.EventID == eventID {
				continue
			}
			kept = append(kept, reg)
		}

		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("r.dao.Mutate -> %w", err)
	}

	return nil
}

// Remove deletes the record for the pair and returns it, or fails with
// ErrRegistrationNotFound. Of several concurrent calls only one succeeds.
func (r *RegistrationRepository) Remove(ctx context.Context, mssv, eventID string) (domain.Registration, error) {
	var removed dao.Registration

	err := r.dao.Mutate(ctx, func(regs []dao.Registration) ([]dao.Registration, error) {
		i := indexByKey(regs, mssv, eventID)
		if i < 0 {
			return nil, ErrRegistrationNotFound
		}
		removed = regs[i]

		return append(regs[:i], regs[i+1:]...), nil
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Mutate -> %w", err)
	}

	return r.daoToDomain(removed), nil
}

func (r *RegistrationRepository) IsRegistered(ctx context.Context, mssv, eventID string) (bool, error) {
	_, err := r.FindByStudentAndEvent(ctx, mssv, eventID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Statistics counts registrations by status, for one event or, when eventID
// is empty, for all of them.
func (r *RegistrationRepository) Statistics(ctx context.Context, eventID string) (domain.Statistics, error) {
	var (
		regs []domain.Registration
		err  error
	)
	if eventID == "" {
		regs, err = r.GetAll(ctx)
	} else {
		regs, err = r.GetByEvent(ctx, eventID)
	}
	if err != nil {
		return domain.Statistics{}, err
	}

	return domain.CountStatistics(regs), nil
}

func indexByKey(regs []dao.Registration, mssv, eventID string) int {
	for i, reg := range regs {
		if reg.MSSV == mssv && reg.EventID == eventID {
			return i
		}
	}

	return -1
}

func indexByToken(regs []dao.Registration, token string) int {
	if token == "" {
		return -1
	}

	for i, reg := range regs {
		if reg.QRToken == token {
			return i
		}
	}

	for i, reg := range regs {
		if strings.EqualFold(reg.QRToken, token) {
			return i
		}
	}

	return -1
}

type registrationKey struct {
	mssv    string
	eventID string
}

// tokenKeys rebuilds candidate (mssv, eventId) pairs from "<mssv>_<eventId>"
// and the timestamped "<mssv>_<eventId>_<unix>" form.
func tokenKeys(token string) []registrationKey {
	parts := strings.Split(strings.TrimSpace(token), "_")
	if len(parts) < 2 || parts[0] == "" {
		return nil
	}

	keys := []registrationKey{{mssv: parts[0], eventID: strings.Join(parts[1:], "_")}}
	if len(parts) > 2 && isDigits(parts[len(parts)-1]) {
		keys = append(keys, registrationKey{mssv: parts[0], eventID: strings.Join(parts[1:len(parts)-1], "_")})
	}

	return keys
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

func mergeRegistration(stored, incoming dao.Registration) dao.Registration {
	merged := stored
	if incoming.Email != "" {
		merged.Email = incoming.Email
	}
	if incoming.Name != "" {
		merged.Name = incoming.Name
	}
	if incoming.Class != "" {
		merged.Class = incoming.Class
	}
	if incoming.QRToken != "" {
		merged.QRToken = incoming.QRToken
	}
	if incoming.Status != "" {
		merged.Status = incoming.Status
	}
	if !incoming.RegistrationDate.IsZero() {
		merged.RegistrationDate = incoming.RegistrationDate
	}
	if incoming.CheckInTime != nil {
		merged.CheckInTime = incoming.CheckInTime
	}
	if incoming.CheckoutTime != nil {
		merged.CheckoutTime = incoming.CheckoutTime
	}
	if incoming.BadgeEarned != nil {
		merged.BadgeEarned = incoming.BadgeEarned
	}
	if incoming.CorrectAnswers != 0 {
		merged.CorrectAnswers = incoming.CorrectAnswers
	}
	if incoming.UpdatedAt != nil {
		merged.UpdatedAt = incoming.UpdatedAt
	}

	return merged
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	var badge domain.BadgeTier
	if reg.BadgeEarned != nil {
		badge = domain.BadgeTier(*reg.BadgeEarned)
	}

	return domain.Registration{
		MSSV:             reg.MSSV,
		Email:            reg.Email,
		Name:             reg.Name,
		Class:            reg.Class,
		EventID:          reg.EventID,
		QRToken:          reg.QRToken,
		Status:           domain.RegistrationStatus(reg.Status),
		RegistrationDate: reg.RegistrationDate,
		CheckInTime:      reg.CheckInTime,
		CheckoutTime:     reg.CheckoutTime,
		BadgeEarned:      badge,
		CorrectAnswers:   reg.CorrectAnswers,
		UpdatedAt:        reg.UpdatedAt,
	}
}

func (r *RegistrationRepository) daosToDomain(regs []dao.Registration) []domain.Registration {
	out := make([]domain.Registration, len(regs))
	for i, reg := range regs {
		out[i] = r.daoToDomain(reg)
	}

	return out
}

func (r *RegistrationRepository) domainToDao(reg domain.Registration) dao.Registration {
	var badge *string
	if reg.BadgeEarned != domain.BadgeNone {
		b := string(reg.BadgeEarned)
		badge = &b
	}

	return dao.Registration{
		MSSV:             reg.MSSV,
		Email:            reg.Email,
		Name:             reg.Name,
		Class:            reg.Class,
		EventID:          reg.EventID,
		QRToken:          reg.QRToken,
		Status:           string(reg.Status),
		RegistrationDate: reg.RegistrationDate,
		CheckInTime:      reg.CheckInTime,
		CheckoutTime:     reg.CheckoutTime,
		BadgeEarned:      badge,
		CorrectAnswers:   reg.CorrectAnswers,
		UpdatedAt:        reg.UpdatedAt,
	}
}
