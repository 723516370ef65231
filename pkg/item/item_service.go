package item

import (
	"context"
	"errors"
	"fmt"

	"inventory-provision-api/domain"
	"inventory-provision-api/entities"
	"inventory-provision-api/internal/utils/mailing"
	"inventory-provision-api/pkg/user"

	"gorm.io/gorm"
)

type (
	ItemService interface {
		AddItem(ctx context.Context, req domain.AddItemRequest) (*domain.ItemResponse, error)
		EditItem(ctx context.Context, itemID string, req domain.EditItemRequest) (*domain.ItemResponse, error)
		GetItems(ctx context.Context) ([]*domain.ItemResponse, error)
		GetItemByID(ctx context.Context, itemID string) (*domain.ItemResponse, error)
		SearchItems(ctx context.Context, prefix string) ([]*domain.ItemResponse, error)
	}

	itemService struct {
		itemRepository ItemRepository
		userRepository user.UserRepository
		mailer         mailing.Mailer
	}
)

func NewItemService(itemRepository ItemRepository, userRepository user.UserRepository, mailer mailing.Mailer) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		userRepository: userRepository,
		mailer:         mailer,
	}
}

func toItemResponse(it *entities.Item) *domain.ItemResponse {
	return &domain.ItemResponse{
		ID:          it.ID.String(),
		Name:        it.Name,
		Description: it.Description,
		Returnable:  it.Returnable,
		Quantity:    it.Quantity,
		CreatedAt:   it.CreatedAt,
	}
}

func (s *itemService) AddItem(ctx context.Context, req domain.AddItemRequest) (*domain.ItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	if _, err := s.itemRepository.GetItemByName(ctx, req.Name); err == nil {
		return nil, domain.ErrDuplicateItemName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &entities.Item{
		Name:        req.Name,
		Description: req.Description,
		Returnable:  req.Returnable,
		Quantity:    req.Quantity,
	}
	if err := s.itemRepository.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	// Everyone gets to hear about new stock.
	if recipients, err := s.allUserEmails(ctx); err == nil && len(recipients) > 0 {
		s.mailer.Queue(mailing.Message{
			Subject: "New Inventory Item Added",
			Body:    fmt.Sprintf("%s has been added to inventory. Quantity added is %d", item.Name, item.Quantity),
			To:      recipients,
		})
	}

	return toItemResponse(item), nil
}

func (s *itemService) EditItem(ctx context.Context, itemID string, req domain.EditItemRequest) (*domain.ItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := s.itemRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	// A save with nothing changed stays silent.
	if item.Description == req.Description && item.Quantity == req.Quantity {
		return toItemResponse(item), nil
	}

	item.Description = req.Description
	item.Quantity = req.Quantity
	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if recipients, err := s.adminEmails(ctx); err == nil && len(recipients) > 0 {
		s.mailer.Queue(mailing.Message{
			Subject: "Inventory Item Updated",
			Body:    fmt.Sprintf("Inventory Item - %s has been updated.", item.Name),
			To:      recipients,
		})
	}

	return toItemResponse(item), nil
}

func (s *itemService) GetItems(ctx context.Context) ([]*domain.ItemResponse, error) {
	items, err := s.itemRepository.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, toItemResponse(it))
	}
	return result, nil
}

func (s *itemService) GetItemByID(ctx context.Context, itemID string) (*domain.ItemResponse, error) {
	item, err := s.itemRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return toItemResponse(item), nil
}

func (s *itemService) SearchItems(ctx context.Context, prefix string) ([]*domain.ItemResponse, error) {
	items, err := s.itemRepository.SearchItems(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, toItemResponse(it))
	}
	return result, nil
}

func (s *itemService) allUserEmails(ctx context.Context) ([]string, error) {
	users, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	return emails, nil
}

func (s *itemService) adminEmails(ctx context.Context) ([]string, error) {
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
