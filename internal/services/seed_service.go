package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/repositories"
	"github.com/keya254/smart-serve/pkg/utils"
)

// seedLockKey is the advisory lock held while seeding so that two instances
// booting against the same database cannot both seed it.
const seedLockKey = 727_001

// SeedService populates an empty database with the starter menu and floor plan.
type SeedService interface {
	// Seed returns true when it wrote data, false when the database was already seeded.
	Seed(ctx context.Context) (bool, error)
}

type seedService struct {
	menuRepo  repositories.MenuRepository
	tableRepo repositories.TableRepository
	orderRepo repositories.OrderRepository
	db        *sql.DB
	now       func() time.Time
}

// NewSeedService creates a new instance of SeedService.
func NewSeedService(
	mr repositories.MenuRepository,
	tr repositories.TableRepository,
	or repositories.OrderRepository,
	db *sql.DB,
) SeedService {
	return &seedService{menuRepo: mr, tableRepo: tr, orderRepo: or, db: db, now: time.Now}
}

var seedCategories = []string{"Starters", "Mains", "Grills", "Sides", "Beverages", "Desserts"}

var seedMenuItems = []models.MenuItem{
	{ID: "1", Name: "Spiced Chicken Wings", Description: "Crispy wings with our signature peri-peri glaze", Price: 650, Category: "Starters", Popular: true, Available: true, Image: "https://images.unsplash.com/photo-1527477396000-64ca9c0016cb?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "2", Name: "Garlic Mushroom Soup", Description: "Creamy soup with toasted ciabatta", Price: 450, Category: "Starters", Available: true, Image: "https://images.unsplash.com/photo-1547592166-23acbe3b624b?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "3", Name: "Spring Rolls", Description: "Vegetable spring rolls with sweet chili dip", Price: 400, Category: "Starters", Available: true, Image: "https://images.unsplash.com/photo-1536510344784-b46e9649f363?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "4", Name: "Nyama Choma Platter", Description: "Grilled goat ribs with kachumbari and ugali", Price: 1800, Category: "Mains", Popular: true, Available: true, Image: "https://images.unsplash.com/photo-1544025162-d76690b67f14?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "5", Name: "Grilled Tilapia", Description: "Whole tilapia with lemon herb butter, served with chips", Price: 1500, Category: "Mains", Available: true, Image: "https://images.unsplash.com/photo-1519708227418-c8fd9a32b7a2?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "6", Name: "Chicken Tikka Masala", Description: "Tender chicken in aromatic tomato-based curry", Price: 1200, Category: "Mains", Available: true, Image: "https://images.unsplash.com/photo-1565557623262-b51c2513a641?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "7", Name: "Ribeye Steak", Description: "300g aged ribeye with pepper sauce", Price: 2200, Category: "Grills", Popular: true, Available: true, Image: "https://images.unsplash.com/photo-1546964124-0cce460f38ef?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "8", Name: "Lamb Chops", Description: "Rosemary-marinated lamb with mint jelly", Price: 1900, Category: "Grills", Available: true, Image: "https://images.unsplash.com/photo-1603360946369-dc9bb6258143?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "9", Name: "Masala Chips", Description: "Crispy fries tossed in tangy masala spice", Price: 350, Category: "Sides", Available: true, Image: "https://images.unsplash.com/photo-1630384060421-cb20d0e0649d?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "10", Name: "Garden Salad", Description: "Mixed greens with balsamic dressing", Price: 300, Category: "Sides", Available: true, Image: "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "11", Name: "Fresh Mango Juice", Description: "Freshly blended tropical mango", Price: 250, Category: "Beverages", Available: true, Image: "https://images.unsplash.com/photo-1623065422902-30a2d299bbe4?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "12", Name: "Tusker Lager", Description: "500ml cold draft", Price: 350, Category: "Beverages", Popular: true, Available: true, Image: "https://images.unsplash.com/photo-1608270586620-248524c67de9?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "13", Name: "Dawa Cocktail", Description: "Vodka, honey, lime. A Kenyan classic", Price: 550, Category: "Beverages", Available: true, Image: "https://images.unsplash.com/photo-1536935338788-843bb631366f?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "14", Name: "Chocolate Lava Cake", Description: "Warm molten chocolate with vanilla ice cream", Price: 600, Category: "Desserts", Popular: true, Available: true, Image: "https://images.unsplash.com/photo-1606313564200-e75d5e30476d?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
	{ID: "15", Name: "Fruit Platter", Description: "Seasonal tropical fruits", Price: 400, Category: "Desserts", Available: true, Image: "https://images.unsplash.com/photo-1619533394727-57d522857f89?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3"},
}

func seededTable(id string, number, seats int, status models.TableStatus, session, waiter string, guests int, total int64, activity string) models.Table {
	t := models.Table{ID: id, Number: number, Seats: seats, Status: status}
	if status == models.TableStatusAvailable {
		return t
	}
	t.SessionID = &session
	t.Waiter = &waiter
	t.Guests = &guests
	t.OrderTotal = &total
	t.LastActivity = &activity
	return t
}

var seedTables = []models.Table{
	seededTable("t1", 1, 4, models.TableStatusOccupied, "s1", "James", 3, 4250, "2 min ago"),
	seededTable("t2", 2, 2, models.TableStatusAvailable, "", "", 0, 0, ""),
	seededTable("t3", 3, 6, models.TableStatusOccupied, "s2", "James", 5, 8900, "5 min ago"),
	seededTable("t4", 4, 4, models.TableStatusNeedsAttention, "s3", "James", 4, 3200, "8 min ago"),
	seededTable("t5", 5, 2, models.TableStatusBilling, "s4", "James", 2, 2100, "1 min ago"),
	seededTable("t6", 6, 8, models.TableStatusAvailable, "", "", 0, 0, ""),
	seededTable("t7", 7, 4, models.TableStatusOccupied, "s5", "James", 4, 5600, "3 min ago"),
	seededTable("t8", 8, 4, models.TableStatusAvailable, "", "", 0, 0, ""),
}

type seedOrderItem struct {
	menuItemID string
	quantity   int
	notes      string
	status     models.ItemStatus
}

type seedOrder struct {
	id       string
	tableID  string
	priority models.Priority
	age      time.Duration
	items    []seedOrderItem
}

var seedOrders = []seedOrder{
	{id: "k1", tableID: "t1", priority: models.PriorityNormal, age: 2 * time.Minute, items: []seedOrderItem{
		{menuItemID: "1", quantity: 2, status: models.ItemStatusPreparing},
		{menuItemID: "2", quantity: 1, status: models.ItemStatusReady},
	}},
	{id: "k2", tableID: "t3", priority: models.PriorityRush, age: 5 * time.Minute, items: []seedOrderItem{
		{menuItemID: "4", quantity: 2, status: models.ItemStatusPreparing},
		{menuItemID: "9", quantity: 3, status: models.ItemStatusPending},
		{menuItemID: "10", quantity: 2, status: models.ItemStatusReady},
	}},
	{id: "k3", tableID: "t7", priority: models.PriorityNormal, age: time.Minute, items: []seedOrderItem{
		{menuItemID: "7", quantity: 1, notes: "Medium rare", status: models.ItemStatusPending},
		{menuItemID: "8", quantity: 1, status: models.ItemStatusPending},
		{menuItemID: "5", quantity: 2, status: models.ItemStatusPending},
	}},
	{id: "k4", tableID: "t4", priority: models.PriorityNormal, age: 10 * time.Minute, items: []seedOrderItem{
		{menuItemID: "6", quantity: 2, status: models.ItemStatusReady},
		{menuItemID: "3", quantity: 1, status: models.ItemStatusReady},
	}},
}

func (s *seedService) Seed(ctx context.Context) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return false, fmt.Errorf("failed to acquire seed lock: %w", err)
	}

	count, err := s.menuRepo.CountCategories(ctx, tx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		utils.LogDebug("Database already seeded", map[string]interface{}{"categories": count})
		return false, nil
	}

	utils.LogInfo("Seeding database")
	for _, name := range seedCategories {
		if _, err := s.menuRepo.CreateCategory(ctx, tx, name); err != nil {
			return false, fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}

	prices := make(map[string]models.MenuItem, len(seedMenuItems))
	for i := range seedMenuItems {
		item := seedMenuItems[i]
		if err := s.menuRepo.CreateMenuItem(ctx, tx, &item); err != nil {
			return false, fmt.Errorf("failed to seed menu item %s: %w", item.Name, err)
		}
		prices[item.ID] = item
	}

	tableNumbers := make(map[string]int, len(seedTables))
	for i := range seedTables {
		table := seedTables[i]
		if err := s.tableRepo.CreateTable(ctx, tx, &table); err != nil {
			return false, fmt.Errorf("failed to seed table %d: %w", table.Number, err)
		}
		tableNumbers[table.ID] = table.Number
	}

	now := s.now().UTC()
	for _, so := range seedOrders {
		order := models.Order{
			ID:            so.id,
			TableID:       so.tableID,
			TableNumber:   tableNumbers[so.tableID],
			Status:        models.OrderStatusPending,
			Priority:      so.priority,
			CreatedAt:     now.Add(-so.age),
			PaymentStatus: models.PaymentStatusUnpaid,
		}
		items := make([]models.OrderItem, 0, len(so.items))
		for _, si := range so.items {
			menuItem := prices[si.menuItemID]
			order.TotalAmount += menuItem.Price * int64(si.quantity)
			items = append(items, models.OrderItem{
				OrderID:    so.id,
				MenuItemID: menuItem.ID,
				Name:       menuItem.Name,
				Price:      menuItem.Price,
				Quantity:   si.quantity,
				Notes:      utils.NewNullString(si.notes),
				Status:     si.status,
			})
		}
		if err := s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
			return false, fmt.Errorf("failed to seed order %s: %w", so.id, err)
		}
		for i := range items {
			if err := s.orderRepo.CreateOrderItem(ctx, tx, &items[i]); err != nil {
				return false, fmt.Errorf("failed to seed item for order %s: %w", so.id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	utils.LogInfo("Database seeded", map[string]interface{}{
		"categories": len(seedCategories), "menu_items": len(seedMenuItems),
		"tables": len(seedTables), "orders": len(seedOrders),
	})
	return true, nil
}
