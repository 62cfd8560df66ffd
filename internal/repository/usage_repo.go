package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pantrymind/pantrymind/internal/models"
)

// UsageRepository handles usage logs and meal logs.
type UsageRepository struct {
	db *sql.DB
}

// NewUsageRepository creates a new usage repository.
func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// mealIngredientRecord is the msgpack form of models.MealIngredient.
type mealIngredientRecord struct {
	ItemID   string `msgpack:"item_id"`
	Name     string `msgpack:"name"`
	RawText  string `msgpack:"raw,omitempty"`
	Quantity string `msgpack:"qty"`
	Unit     string `msgpack:"unit,omitempty"`
}

// CreateUsageLog inserts a usage log row.
func (r *UsageRepository) CreateUsageLog(ctx context.Context, tx *sql.Tx, u *models.UsageLog) error {
	if u.UsedAt.IsZero() {
		u.UsedAt = time.Now().UTC()
	}

	_, err := execerFor(r.db, tx).ExecContext(ctx, `
		INSERT INTO usage_logs (
			id, kitchen_id, item_id, batch_id, user_id, quantity,
			usage_type, recipe_name, meal_log_id, notes, used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.KitchenID,
		u.ItemID,
		u.BatchID,
		u.UserID,
		u.Quantity.String(),
		string(u.UsageType),
		nullString(u.RecipeName),
		nullString(u.MealLogID),
		nullString(u.Notes),
		formatTime(u.UsedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting usage log: %w", err)
	}
	return nil
}

// ListUsage retrieves usage history, newest first.
func (r *UsageRepository) ListUsage(ctx context.Context, filter models.UsageFilter, page models.Pagination) (*models.UsageList, error) {
	var conditions []string
	var args []any

	if filter.KitchenID != "" {
		conditions = append(conditions, "u.kitchen_id = ?")
		args = append(args, filter.KitchenID)
	}
	if filter.ItemID != "" {
		conditions = append(conditions, "u.item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.BatchID != "" {
		conditions = append(conditions, "u.batch_id = ?")
		args = append(args, filter.BatchID)
	}
	if filter.MealLogID != "" {
		conditions = append(conditions, "u.meal_log_id = ?")
		args = append(args, filter.MealLogID)
	}
	if filter.UsageType != nil {
		conditions = append(conditions, "u.usage_type = ?")
		args = append(args, string(*filter.UsageType))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "u.used_at >= ?")
		args = append(args, formatTime(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "u.used_at <= ?")
		args = append(args, formatTime(*filter.EndDate))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_logs u"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting usage logs: %w", err)
	}

	args = append(args, page.Limit(), page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.kitchen_id, u.item_id, u.batch_id, u.user_id, u.quantity,
			u.usage_type, u.recipe_name, u.meal_log_id, u.notes, u.used_at,
			i.name, i.unit
		FROM usage_logs u
		LEFT JOIN inventory_items i ON u.item_id = i.id`+where+`
		ORDER BY u.used_at DESC, u.id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.UsageLog
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, u)
	}

	return &models.UsageList{
		Logs:       logs,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, rows.Err()
}

// CreateMealLog inserts a meal log with its ingredients packed as msgpack.
func (r *UsageRepository) CreateMealLog(ctx context.Context, tx *sql.Tx, m *models.MealLog) error {
	if m.CookedAt.IsZero() {
		m.CookedAt = time.Now().UTC()
	}
	if m.MealType == "" {
		m.MealType = models.MealTypeAt(m.CookedAt)
	}

	blob, err := encodeIngredients(m.Ingredients)
	if err != nil {
		return err
	}

	_, err = execerFor(r.db, tx).ExecContext(ctx, `
		INSERT INTO meal_logs (
			id, kitchen_id, cooked_by, meal_name, meal_type, servings, ingredients, cooked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.KitchenID,
		m.CookedBy,
		m.MealName,
		string(m.MealType),
		m.Servings,
		blob,
		formatTime(m.CookedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting meal log: %w", err)
	}
	return nil
}

// GetMealLog retrieves a meal log by ID.
func (r *UsageRepository) GetMealLog(ctx context.Context, id string) (*models.MealLog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kitchen_id, cooked_by, meal_name, meal_type, servings, ingredients, cooked_at
		FROM meal_logs WHERE id = ?`, id)

	m, err := scanMeal(row)
	if err != nil {
		return nil, notFound("meal log", id, err)
	}
	return m, nil
}

// ListMealLogs retrieves a kitchen's meal logs, newest first.
func (r *UsageRepository) ListMealLogs(ctx context.Context, kitchenID string, page models.Pagination) ([]*models.MealLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kitchen_id, cooked_by, meal_name, meal_type, servings, ingredients, cooked_at
		FROM meal_logs
		WHERE kitchen_id = ?
		ORDER BY cooked_at DESC, id DESC
		LIMIT ? OFFSET ?`, kitchenID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("querying meal logs: %w", err)
	}
	defer rows.Close()

	var meals []*models.MealLog
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meal log row: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func encodeIngredients(ings []models.MealIngredient) ([]byte, error) {
	records := make([]mealIngredientRecord, len(ings))
	for i, ing := range ings {
		records[i] = mealIngredientRecord{
			ItemID:   ing.ItemID,
			Name:     ing.Name,
			RawText:  ing.RawText,
			Quantity: ing.Quantity.String(),
			Unit:     ing.Unit,
		}
	}
	blob, err := msgpack.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding meal ingredients: %w", err)
	}
	return blob, nil
}

func decodeIngredients(blob []byte) ([]models.MealIngredient, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	var records []mealIngredientRecord
	if err := msgpack.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("decoding meal ingredients: %w", err)
	}

	ings := make([]models.MealIngredient, len(records))
	for i, rec := range records {
		qty, err := parseDecimal("ingredient quantity", rec.Quantity)
		if err != nil {
			return nil, err
		}
		ings[i] = models.MealIngredient{
			ItemID:   rec.ItemID,
			Name:     rec.Name,
			RawText:  rec.RawText,
			Quantity: qty,
			Unit:     rec.Unit,
		}
	}
	return ings, nil
}

func scanUsage(s scanner) (*models.UsageLog, error) {
	var u models.UsageLog
	var qty, usageType, usedAt string
	var recipe, mealLogID, notes, itemName, itemUnit sql.NullString

	err := s.Scan(
		&u.ID, &u.KitchenID, &u.ItemID, &u.BatchID, &u.UserID, &qty,
		&usageType, &recipe, &mealLogID, &notes, &usedAt,
		&itemName, &itemUnit,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning usage row: %w", err)
	}

	if u.Quantity, err = parseDecimal("usage quantity", qty); err != nil {
		return nil, err
	}
	u.UsageType = models.UsageType(usageType)
	u.RecipeName = stringPtr(recipe)
	u.MealLogID = stringPtr(mealLogID)
	u.Notes = stringPtr(notes)
	u.UsedAt = parseTime(usedAt)
	u.ItemName = itemName.String
	u.ItemUnit = itemUnit.String
	return &u, nil
}

func scanMeal(s scanner) (*models.MealLog, error) {
	var m models.MealLog
	var mealType, cookedAt string
	var blob []byte

	if err := s.Scan(&m.ID, &m.KitchenID, &m.CookedBy, &m.MealName, &mealType, &m.Servings, &blob, &cookedAt); err != nil {
		return nil, err
	}

	ings, err := decodeIngredients(blob)
	if err != nil {
		return nil, err
	}
	m.MealType = models.MealType(mealType)
	m.Ingredients = ings
	m.CookedAt = parseTime(cookedAt)
	return &m, nil
}
