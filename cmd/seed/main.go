package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/internal/categories"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/internal/sales"
	"github.com/angelmondragon/pos-backend/internal/stores"
	"github.com/angelmondragon/pos-backend/internal/users"
	pkgauth "github.com/angelmondragon/pos-backend/pkg/auth"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/migrate"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type seedCategory struct {
	name        string
	description string
}

type seedProduct struct {
	category    string
	name        string
	sku         string
	barcode     string
	priceCents  int64
	costCents   int64
	quantity    int
	minQuantity int
	unit        string
}

var seedCategories = []seedCategory{
	{"Electronics", "Electronic devices and accessories"},
	{"Food & Beverages", "Fresh food and drinks"},
	{"Clothing", "Apparel and fashion items"},
	{"Home & Garden", "Home improvement and garden supplies"},
	{"Sports & Outdoors", "Sports equipment and outdoor gear"},
}

var seedProducts = []seedProduct{
	{"Electronics", "Wireless Mouse", "ELEC-001", "123456789012", 2999, 1500, 50, 10, "pcs"},
	{"Electronics", "USB-C Cable", "ELEC-002", "123456789013", 1299, 500, 100, 20, "pcs"},
	{"Electronics", "Bluetooth Headphones", "ELEC-003", "123456789014", 8999, 4500, 25, 5, "pcs"},
	{"Food & Beverages", "Orange Juice", "FOOD-001", "223456789012", 899, 400, 75, 15, "gallon"},
	{"Food & Beverages", "Organic Coffee Beans", "FOOD-002", "223456789013", 1599, 800, 40, 10, "lb"},
	{"Clothing", "Cotton T-Shirt", "CLTH-001", "323456789012", 1999, 800, 60, 15, "pcs"},
	{"Home & Garden", "Garden Hose", "HOME-001", "423456789012", 3499, 1800, 8, 10, "pcs"},
	{"Sports & Outdoors", "Yoga Mat", "SPRT-001", "523456789012", 2499, 1100, 30, 8, "pcs"},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	withSales := flag.Bool("sales", true, "record a few demo sales")
	reset := flag.Bool("reset", false, "delete all existing rows before seeding")
	resetOnly := flag.Bool("reset-only", false, "delete all existing rows and exit")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if cfg.FeatureFlags.UseSQLite {
		requireResource(ctx, logg, "sqlite schema", migrate.AutoMigrateModels(dbClient))
	}

	if *reset || *resetOnly {
		counts, err := migrate.ClearData(ctx, cfg.App, dbClient)
		requireResource(ctx, logg, "reset", err)
		for _, c := range counts {
			logg.Info(logg.WithFields(ctx, map[string]any{"table": c.Table, "deleted": c.Deleted}), "table cleared")
		}
		if *resetOnly {
			return
		}
	}

	policy, err := access.NewPolicy(cfg.Access.Policy)
	requireResource(ctx, logg, "access policy", err)

	gdb := dbClient.DB()
	productRepo := products.NewRepository(gdb)
	storeSvc, err := stores.NewService(stores.NewRepository(gdb), policy, cfg.POS)
	requireResource(ctx, logg, "store service", err)
	categorySvc, err := categories.NewService(categories.NewRepository(gdb), policy)
	requireResource(ctx, logg, "category service", err)
	productSvc, err := products.NewService(productRepo, policy)
	requireResource(ctx, logg, "product service", err)
	userSvc, err := users.NewService(users.NewRepository(gdb), policy)
	requireResource(ctx, logg, "user service", err)
	saleSvc, err := sales.NewService(dbClient, sales.NewRepository(gdb), productRepo, policy, cfg.POS, logg, nil)
	requireResource(ctx, logg, "sale service", err)

	admin := &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleAdmin}
	ownerAccount := types.New[types.AccountID]()
	cashierAccount := types.New[types.AccountID]()

	_, err = userSvc.Create(ctx, admin, users.CreateUserInput{
		AccountID: admin.AccountID,
		Role:      enums.UserRoleAdmin,
		Name:      "System Administrator",
		Email:     "admin@pos.local",
	})
	requireResource(ctx, logg, "admin user", err)

	phone, address := "+1-555-0123", "123 Main Street, Orange County, CA 92602"
	store, err := storeSvc.Create(ctx, admin, stores.CreateStoreInput{
		Name:             "Orange Grove Market",
		OwnerID:          &ownerAccount,
		Email:            "store@orangegrove.example",
		Phone:            &phone,
		Address:          &address,
		SubscriptionTier: enums.SubscriptionTierPremium,
	})
	requireResource(ctx, logg, "store", err)
	ctx = logg.WithStoreID(ctx, store.ID.String())

	for _, staff := range []users.CreateUserInput{
		{AccountID: ownerAccount, StoreID: &store.ID, Role: enums.UserRoleStoreOwner, Name: "John Orange", Email: "john@orangegrove.example"},
		{AccountID: cashierAccount, StoreID: &store.ID, Role: enums.UserRoleCashier, Name: "Jane Cashier", Email: "jane@orangegrove.example"},
	} {
		_, err := userSvc.Create(ctx, admin, staff)
		requireResource(ctx, logg, "staff user "+staff.Email, err)
	}

	categoryIDs := make(map[string]types.CategoryID, len(seedCategories))
	for _, c := range seedCategories {
		description := c.description
		created, err := categorySvc.Create(ctx, admin, store.ID, categories.CreateCategoryInput{Name: c.name, Description: &description})
		requireResource(ctx, logg, "category "+c.name, err)
		categoryIDs[c.name] = created.ID
	}

	productIDs := make([]types.ProductID, 0, len(seedProducts))
	for _, p := range seedProducts {
		categoryID := categoryIDs[p.category]
		barcode, unit, cost := p.barcode, p.unit, p.costCents
		created, err := productSvc.Create(ctx, admin, store.ID, products.CreateProductInput{
			CategoryID:  &categoryID,
			Name:        p.name,
			SKU:         p.sku,
			Barcode:     &barcode,
			PriceCents:  p.priceCents,
			CostCents:   &cost,
			Quantity:    p.quantity,
			MinQuantity: p.minQuantity,
			Unit:        &unit,
		})
		requireResource(ctx, logg, "product "+p.sku, err)
		productIDs = append(productIDs, created.ID)
	}

	cashier := &access.Identity{AccountID: cashierAccount, Role: enums.UserRoleCashier, StoreID: &store.ID}
	if *withSales {
		carts := []sales.CreateSaleInput{
			{Items: []sales.LineItemInput{{ProductID: productIDs[0], Quantity: 2}}, PaymentMethod: enums.PaymentMethodCash},
			{Items: []sales.LineItemInput{{ProductID: productIDs[3], Quantity: 1}, {ProductID: productIDs[4], Quantity: 2}}, PaymentMethod: enums.PaymentMethodCard},
			{Items: []sales.LineItemInput{{ProductID: productIDs[5], Quantity: 3}}, DiscountCents: 500, PaymentMethod: enums.PaymentMethodMobile},
		}
		for _, cart := range carts {
			_, err := saleSvc.Create(ctx, cashier, store.ID, cart)
			requireResource(ctx, logg, "demo sale", err)
		}
	}

	logg.Info(ctx, "seed data created")

	fmt.Printf("store_id=%s\n", store.ID)
	for _, who := range []struct {
		label string
		id    *access.Identity
	}{
		{"admin", admin},
		{"store_owner", &access.Identity{AccountID: ownerAccount, Role: enums.UserRoleStoreOwner, StoreID: &store.ID}},
		{"cashier", cashier},
	} {
		token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
			AccountID: who.id.AccountID,
			StoreID:   who.id.StoreID,
			Role:      who.id.Role,
			JTI:       uuid.NewString(),
		})
		requireResource(ctx, logg, "dev token", err)
		fmt.Printf("%s_token=%s\n", who.label, token)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("seed step failed: %s", resource), err)
	os.Exit(1)
}
