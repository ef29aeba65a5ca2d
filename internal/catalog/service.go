// Package catalog はレストランとメニュー項目のCRUDドメインロジックを提供する。
//
// 変更系の全操作は呼び出し元のユーザーIDを受け取り、対象レコードの
// 所有者と一致しない場合はErrCodeNotAuthorizedを返す。所有者判定は
// authorizeOwnerに一元化されており、ハンドラーごとに重複させない。
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/menubook/internal/model"
	"github.com/hitoshi/menubook/internal/repository"
	"github.com/hitoshi/menubook/internal/security"
)

// MetricsRecorder はレコード書き込みのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordWrite(entity, op string)
}

// Service はカタログ管理のサービス層。
type Service struct {
	restRepo  repository.RestaurantRepository
	itemRepo  repository.MenuItemRepository
	sanitizer security.TextSanitizer
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	restRepo repository.RestaurantRepository,
	itemRepo repository.MenuItemRepository,
	sanitizer security.TextSanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		restRepo:  restRepo,
		itemRepo:  itemRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// authorizeOwner は所有者判定の共通述語。
// レコードの所有者と操作ユーザーが一致しない場合にErrCodeNotAuthorizedを返す。
func authorizeOwner(ownerID, userID string) error {
	if ownerID != userID {
		return model.NewNotAuthorizedError()
	}
	return nil
}

// ListRestaurants は全レストランを返す。認証状態に関わらず同一のデータを返す。
func (s *Service) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	restaurants, err := s.restRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, nil
}

// GetRestaurant は指定IDのレストランを返す。
// 見つからない場合はErrCodeRestaurantNotFoundを返す。
func (s *Service) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	rest, err := s.restRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant: %w", err)
	}
	if rest == nil {
		return nil, model.NewRestaurantNotFoundError(id)
	}
	return rest, nil
}

// CreateRestaurant は新規レストランを作成する。所有者は呼び出し元ユーザーになる。
func (s *Service) CreateRestaurant(ctx context.Context, userID, name, picture string) (*model.Restaurant, error) {
	name = s.sanitizer.SanitizeField(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("レストラン名が空です")
	}

	now := time.Now()
	rest := &model.Restaurant{
		ID:        uuid.New().String(),
		Name:      name,
		Picture:   s.sanitizer.SanitizeField(picture),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.restRepo.Create(ctx, rest); err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	s.recordWrite("restaurant", "create")
	return rest, nil
}

// UpdateRestaurant はレストラン情報を更新する。所有者のみ実行できる。
// nameが空の場合は既存の値を維持する。
func (s *Service) UpdateRestaurant(ctx context.Context, userID, id, name, picture string) (*model.Restaurant, error) {
	rest, err := s.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(rest.UserID, userID); err != nil {
		return nil, err
	}

	if name = s.sanitizer.SanitizeField(name); name != "" {
		rest.Name = name
	}
	if picture = s.sanitizer.SanitizeField(picture); picture != "" {
		rest.Picture = picture
	}
	rest.UpdatedAt = time.Now()

	if err := s.restRepo.Update(ctx, rest); err != nil {
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}

	s.recordWrite("restaurant", "update")
	return rest, nil
}

// DeleteRestaurant はレストランを削除する。所有者のみ実行できる。
// 配下のメニュー項目も併せて削除される。
func (s *Service) DeleteRestaurant(ctx context.Context, userID, id string) error {
	rest, err := s.GetRestaurant(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(rest.UserID, userID); err != nil {
		return err
	}

	if err := s.restRepo.Delete(ctx, rest.ID); err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}

	s.recordWrite("restaurant", "delete")
	return nil
}

// GetMenu はレストランとそのメニュー項目一覧を返す。
// レストランが見つからない場合はErrCodeRestaurantNotFoundを返す。
func (s *Service) GetMenu(ctx context.Context, restaurantID string) (*model.Restaurant, []*model.MenuItem, error) {
	rest, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.itemRepo.ListByRestaurantID(ctx, rest.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	return rest, items, nil
}

// GetMenuItem は指定IDのメニュー項目を返す。
// 見つからない場合はErrCodeMenuItemNotFoundを返す。
func (s *Service) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu item: %w", err)
	}
	if item == nil {
		return nil, model.NewMenuItemNotFoundError(id)
	}
	return item, nil
}

// CreateMenuItem は指定レストランに新規メニュー項目を作成する。
// 親レストランの所有者のみ実行でき、項目のUserIDには
// 操作ユーザーではなく親レストランの所有者IDがコピーされる。
func (s *Service) CreateMenuItem(ctx context.Context, userID, restaurantID, name, price, description string) (*model.MenuItem, error) {
	rest, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(rest.UserID, userID); err != nil {
		return nil, err
	}

	name = s.sanitizer.SanitizeField(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("メニュー項目名が空です")
	}

	now := time.Now()
	item := &model.MenuItem{
		ID:           uuid.New().String(),
		Name:         name,
		Price:        s.sanitizer.SanitizeField(price),
		Description:  s.sanitizer.SanitizeField(description),
		RestaurantID: rest.ID,
		UserID:       rest.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.recordWrite("menu_item", "create")
	return item, nil
}

// UpdateMenuItem はメニュー項目を更新する。所有者のみ実行できる。
// nameが空の場合は更新を行わず既存の値を維持する。
func (s *Service) UpdateMenuItem(ctx context.Context, userID, id, name, price, description string) (*model.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(item.UserID, userID); err != nil {
		return nil, err
	}

	if name = s.sanitizer.SanitizeField(name); name != "" {
		item.Name = name
		item.Price = s.sanitizer.SanitizeField(price)
		item.Description = s.sanitizer.SanitizeField(description)
	}
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.recordWrite("menu_item", "update")
	return item, nil
}

// DeleteMenuItem はメニュー項目を削除する。所有者のみ実行できる。
func (s *Service) DeleteMenuItem(ctx context.Context, userID, id string) error {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(item.UserID, userID); err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.recordWrite("menu_item", "delete")
	return nil
}

// recordWrite はメトリクスが設定されている場合のみ書き込みを記録する。
func (s *Service) recordWrite(entity, op string) {
	if s.metrics != nil {
		s.metrics.RecordWrite(entity, op)
	}
}
