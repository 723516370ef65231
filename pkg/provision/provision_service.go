package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"
	"inventory-provision-api/internal/utils/mailing"
	"inventory-provision-api/pkg/item"
	"inventory-provision-api/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Number of rows shown per dashboard queue before "load more" kicks in.
	dashboardPageSize = 5

	defaultReturnWindow = 7 * 24 * time.Hour
)

type (
	ProvisionService interface {
		RequestItem(ctx context.Context, req domain.RequestItemRequest, userID string) (*domain.ProvisionResponse, error)
		ApproveRequest(ctx context.Context, provisionID string, req domain.ApproveProvisionRequest) (*domain.ProvisionResponse, error)
		IssueItems(ctx context.Context, req domain.IssueItemsRequest) ([]*domain.ProvisionResponse, error)
		ReturnItem(ctx context.Context, provisionID string) (*domain.ProvisionResponse, error)
		Dashboard(ctx context.Context, userID string, isAdmin bool) (*domain.DashboardResponse, error)
		ListPending(ctx context.Context, userID string, isAdmin bool, page, limit int) ([]*domain.ProvisionResponse, int64, error)
		ListApproved(ctx context.Context, userID string, isAdmin bool, page, limit int) ([]*domain.ProvisionResponse, int64, error)
		NotifyOverdue(ctx context.Context) error
	}

	provisionService struct {
		provisionRepository ProvisionRepository
		itemRepository      item.ItemRepository
		userRepository      user.UserRepository
		mailer              mailing.Mailer
	}
)

func NewProvisionService(
	provisionRepository ProvisionRepository,
	itemRepository item.ItemRepository,
	userRepository user.UserRepository,
	mailer mailing.Mailer,
) ProvisionService {
	return &provisionService{
		provisionRepository: provisionRepository,
		itemRepository:      itemRepository,
		userRepository:      userRepository,
		mailer:              mailer,
	}
}

func toProvisionResponse(p *entities.Provision) *domain.ProvisionResponse {
	res := &domain.ProvisionResponse{
		ID:            p.ID.String(),
		ItemID:        p.ItemID.String(),
		UserID:        p.UserID.String(),
		Timestamp:     p.Timestamp,
		Approved:      p.Approved,
		ApprovedOn:    p.ApprovedOn,
		ReturnBy:      p.ReturnBy,
		Quantity:      p.Quantity,
		Returned:      p.Returned,
		ReturnedOn:    p.ReturnedOn,
		RequestByUser: p.RequestByUser,
	}
	if p.Item != nil {
		res.ItemName = p.Item.Name
		res.Description = p.Item.Description
	}
	if p.User != nil {
		res.UserEmail = p.User.Email
	}
	return res
}

// parseReturnBy accepts either a full RFC 3339 timestamp or a bare date.
func parseReturnBy(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.ErrReturnByInvalid
	}
	return &t, nil
}

func (s *provisionService) RequestItem(ctx context.Context, req domain.RequestItemRequest, userID string) (*domain.ProvisionResponse, error) {
	requester, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	// Admins issue items directly; they do not queue requests.
	if requester.IsAdmin {
		return nil, domain.ErrUserNotAllowed
	}

	it, err := s.itemRepository.GetItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	// Advisory only; the quantity is re-checked under lock at approval.
	if it.Quantity <= 0 {
		return nil, domain.ErrItemOutOfStock
	}

	p := &entities.Provision{
		ItemID:        it.ID,
		UserID:        requester.ID,
		Timestamp:     time.Now().UTC(),
		RequestByUser: true,
	}
	if err := s.provisionRepository.CreateProvision(ctx, p); err != nil {
		return nil, err
	}

	p.Item = it
	p.User = requester
	return toProvisionResponse(p), nil
}

func (s *provisionService) ApproveRequest(ctx context.Context, provisionID string, req domain.ApproveProvisionRequest) (*domain.ProvisionResponse, error) {
	pending, err := s.provisionRepository.GetPendingProvision(ctx, provisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProvisionNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	returnBy, err := parseReturnBy(req.ReturnBy)
	if err != nil {
		return nil, err
	}
	if returnBy != nil && !returnBy.After(now) {
		return nil, domain.ErrReturnByPast
	}
	if returnBy == nil && pending.Item != nil && pending.Item.Returnable {
		due := now.Add(defaultReturnWindow)
		returnBy = &due
	}

	approved, err := s.provisionRepository.Approve(ctx, provisionID, quantity, returnBy, now)
	if err != nil {
		return nil, err
	}
	approved.Item = pending.Item
	approved.User = pending.User

	s.notifyProvisioned(ctx, approved)
	return toProvisionResponse(approved), nil
}

func (s *provisionService) IssueItems(ctx context.Context, req domain.IssueItemsRequest) ([]*domain.ProvisionResponse, error) {
	if len(req.Lines) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	now := time.Now().UTC()
	lines := make([]IssueLine, 0, len(req.Lines))
	itemsByID := make(map[uuid.UUID]*entities.Item)
	usersByID := make(map[uuid.UUID]*entities.User)

	for _, ln := range req.Lines {
		itemID, err := uuid.Parse(ln.ItemID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		userID, err := uuid.Parse(ln.UserID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}

		target, ok := usersByID[userID]
		if !ok {
			target, err = s.userRepository.GetUserByID(ctx, userID.String())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, domain.ErrUserNotFound
				}
				return nil, err
			}
			usersByID[userID] = target
		}
		if target.IsAdmin {
			return nil, domain.ErrIssueToAdmin
		}

		it, ok := itemsByID[itemID]
		if !ok {
			it, err = s.itemRepository.GetItemByID(ctx, itemID.String())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, domain.ErrItemNotFound
				}
				return nil, err
			}
			itemsByID[itemID] = it
		}

		quantity := ln.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		returnBy, err := parseReturnBy(ln.ReturnBy)
		if err != nil {
			return nil, err
		}
		if returnBy != nil && !returnBy.After(now) {
			return nil, domain.ErrReturnByPast
		}
		if returnBy == nil && it.Returnable {
			due := now.Add(defaultReturnWindow)
			returnBy = &due
		}

		lines = append(lines, IssueLine{
			ItemID:   itemID,
			UserID:   userID,
			Quantity: quantity,
			ReturnBy: returnBy,
		})
	}

	created, err := s.provisionRepository.Issue(ctx, lines, now)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ProvisionResponse, 0, len(created))
	for _, p := range created {
		p.Item = itemsByID[p.ItemID]
		p.User = usersByID[p.UserID]
		s.notifyProvisioned(ctx, p)
		result = append(result, toProvisionResponse(p))
	}
	return result, nil
}

func (s *provisionService) ReturnItem(ctx context.Context, provisionID string) (*domain.ProvisionResponse, error) {
	returned, err := s.provisionRepository.Return(ctx, provisionID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// Re-read with item and user for the response and the notification.
	full, err := s.provisionRepository.GetProvisionByID(ctx, returned.ID.String())
	if err != nil {
		return toProvisionResponse(returned), nil
	}

	if full.User != nil {
		cc, _ := s.adminEmails(ctx)
		s.mailer.Queue(mailing.Message{
			Subject: "Inventory Item Marked Returned",
			Body:    fmt.Sprintf("An inventory item has been returned by %s", full.User.Email),
			To:      []string{full.User.Email},
			CC:      cc,
		})
	}
	return toProvisionResponse(full), nil
}

func (s *provisionService) Dashboard(ctx context.Context, userID string, isAdmin bool) (*domain.DashboardResponse, error) {
	scope := userID
	if isAdmin {
		scope = ""
	}

	pendingCount, err := s.provisionRepository.CountPending(ctx, scope)
	if err != nil {
		return nil, err
	}
	approvedCount, err := s.provisionRepository.CountApproved(ctx, scope)
	if err != nil {
		return nil, err
	}

	pending, err := s.provisionRepository.ListPending(ctx, scope, 0, dashboardPageSize)
	if err != nil {
		return nil, err
	}
	approved, err := s.provisionRepository.ListApproved(ctx, scope, 0, dashboardPageSize)
	if err != nil {
		return nil, err
	}

	res := &domain.DashboardResponse{
		Pending:      make([]*domain.ProvisionResponse, 0, len(pending)),
		Approved:     make([]*domain.ProvisionResponse, 0, len(approved)),
		PendingMore:  pendingCount > dashboardPageSize,
		ApprovedMore: approvedCount > dashboardPageSize,
	}
	for _, p := range pending {
		res.Pending = append(res.Pending, toProvisionResponse(p))
	}
	for _, p := range approved {
		res.Approved = append(res.Approved, toProvisionResponse(p))
	}
	return res, nil
}

func (s *provisionService) ListPending(ctx context.Context, userID string, isAdmin bool, page, limit int) ([]*domain.ProvisionResponse, int64, error) {
	scope := userID
	if isAdmin {
		scope = ""
	}

	count, err := s.provisionRepository.CountPending(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.provisionRepository.ListPending(ctx, scope, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.ProvisionResponse, 0, len(rows))
	for _, p := range rows {
		result = append(result, toProvisionResponse(p))
	}
	return result, count, nil
}

func (s *provisionService) ListApproved(ctx context.Context, userID string, isAdmin bool, page, limit int) ([]*domain.ProvisionResponse, int64, error) {
	scope := userID
	if isAdmin {
		scope = ""
	}

	count, err := s.provisionRepository.CountApproved(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.provisionRepository.ListApproved(ctx, scope, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.ProvisionResponse, 0, len(rows))
	for _, p := range rows {
		result = append(result, toProvisionResponse(p))
	}
	return result, count, nil
}

// NotifyOverdue mails every holder of an overdue returnable item. Run from
// the daily cron sweep.
func (s *provisionService) NotifyOverdue(ctx context.Context) error {
	overdue, err := s.provisionRepository.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	cc, _ := s.adminEmails(ctx)
	for _, p := range overdue {
		if p.User == nil || p.Item == nil || p.ReturnBy == nil {
			continue
		}
		s.mailer.Queue(mailing.Message{
			Subject: "Inventory Item Overdue",
			Body: fmt.Sprintf(
				"%s was due back on %s. Please return it to the inventory team.",
				p.Item.Name, p.ReturnBy.Format("02 Jan 2006"),
			),
			To: []string{p.User.Email},
			CC: cc,
		})
	}
	return nil
}

func (s *provisionService) notifyProvisioned(ctx context.Context, p *entities.Provision) {
	if p.User == nil || p.Item == nil {
		return
	}
	cc, _ := s.adminEmails(ctx)
	s.mailer.Queue(mailing.Message{
		Subject: "Inventory Item Provisioned",
		Body: fmt.Sprintf(
			"An inventory item has been provisioned to a user. User - %s, item - %s",
			p.User.Email, p.Item.Name,
		),
		To: []string{p.User.Email},
		CC: cc,
	})
}

func (s *provisionService) adminEmails(ctx context.Context) ([]string, error) {
	admins, err := s.userRepository.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(admins))
	for _, u := range admins {
		emails = append(emails, u.Email)
	}
	return emails, nil
}
