package app

import (
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/capsulahaus/shop/internal/adapters/httpserver"
	"github.com/capsulahaus/shop/internal/adapters/notify"
	"github.com/capsulahaus/shop/internal/adapters/repo/postgres"
	"github.com/capsulahaus/shop/internal/domain"
	"github.com/capsulahaus/shop/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	Catalog   *usecase.CatalogUC
	Orders    *usecase.OrderUC
	Content   *usecase.ContentUC
	Brochures *usecase.BrochureUC
	Customers domain.CustomerRepo
	Failures  domain.NotifyFailureRepo
	Notifier  domain.Notifier
	OAuth     *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	pageRepo := postgres.NewPageRepo(db)
	brochureRepo := postgres.NewBrochureRepo(db)
	custRepo := postgres.NewCustomerRepo(db)
	failRepo := postgres.NewNotifyFailureRepo(db)

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:        db,
		Catalog:   &usecase.CatalogUC{Products: prodRepo},
		Orders:    usecase.NewOrderUC(orderRepo),
		Content:   usecase.NewContentUC(pageRepo),
		Brochures: &usecase.BrochureUC{Brochures: brochureRepo},
		Customers: custRepo,
		Failures:  failRepo,
		Notifier:  notify.NewGatewayFromEnv(failRepo),
		OAuth:     oauthCfg,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Catalog:   a.Catalog,
		Orders:    a.Orders,
		Content:   a.Content,
		Brochures: a.Brochures,
		Customers: a.Customers,
		Failures:  a.Failures,
		Notifier:  a.Notifier,
		OAuth:     a.OAuth,
	})
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Image{},
		&domain.Order{}, &domain.OrderItem{},
		&domain.Brochure{}, &domain.PageContent{}, &domain.PageBlock{},
		&domain.Customer{}, &domain.NotifyFailure{},
	); err != nil {
		return err
	}

	var count int64
	if err := a.DB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seedProducts(a.DB)
		seedPages(a.DB)
	}
	return nil
}

// seedProducts loads the 30-house demo catalog. Prices, guest counts
// and categories are fixed so listing filters behave deterministically
// on a fresh database.
func seedProducts(db *gorm.DB) {
	type row struct {
		name       string
		price      int64
		guests     int
		dimensions string
		category   string
		inStock    bool
	}
	rows := []row{
		{"Capsula Mini S", 780_000, 2, "4.0 x 2.4 m", "mini", true},
		{"Capsula Mini M", 890_000, 2, "4.8 x 2.4 m", "mini", true},
		{"Capsula Mini L", 990_000, 3, "5.5 x 2.4 m", "mini", true},
		{"Capsula Mini Terrace", 1_150_000, 2, "5.5 x 2.4 m", "mini", true},
		{"Capsula Mini Panorama", 1_280_000, 2, "6.0 x 2.4 m", "mini", false},
		{"Capsula Mini Duo", 950_000, 4, "6.0 x 2.4 m", "mini", true},
		{"Capsula Standard 20", 1_650_000, 2, "6.0 x 3.2 m", "standard", true},
		{"Capsula Standard 24", 1_890_000, 3, "7.2 x 3.2 m", "standard", true},
		{"Capsula Standard 28", 2_150_000, 4, "8.0 x 3.2 m", "standard", true},
		{"Capsula Standard Loft", 2_390_000, 4, "8.0 x 3.2 m", "standard", true},
		{"Capsula Standard Panorama", 2_590_000, 2, "8.0 x 3.2 m", "standard", true},
		{"Capsula Standard Nord", 2_250_000, 3, "7.2 x 3.2 m", "standard", false},
		{"Capsula Family 32", 2_950_000, 4, "9.0 x 3.6 m", "family", true},
		{"Capsula Family 36", 3_250_000, 5, "10.0 x 3.6 m", "family", true},
		{"Capsula Family 40", 3_590_000, 6, "11.0 x 3.6 m", "family", true},
		{"Capsula Family Duplex", 4_190_000, 6, "11.0 x 3.6 m", "family", true},
		{"Capsula Family Veranda", 3_890_000, 5, "10.0 x 3.6 m", "family", true},
		{"Capsula Family Nord", 3_450_000, 4, "10.0 x 3.6 m", "family", false},
		{"Capsula Premium 40", 4_950_000, 4, "11.0 x 4.0 m", "premium", true},
		{"Capsula Premium 45", 5_450_000, 5, "12.0 x 4.0 m", "premium", true},
		{"Capsula Premium 50", 5_950_000, 6, "13.0 x 4.0 m", "premium", true},
		{"Capsula Premium Panorama", 6_450_000, 4, "12.0 x 4.0 m", "premium", true},
		{"Capsula Premium Duplex", 6_950_000, 6, "13.0 x 4.0 m", "premium", true},
		{"Capsula Premium Nord", 5_750_000, 4, "12.0 x 4.0 m", "premium", false},
		{"Sauna Capsula S", 1_450_000, 2, "4.0 x 2.4 m", "sauna", true},
		{"Sauna Capsula M", 1_750_000, 4, "5.5 x 2.4 m", "sauna", true},
		{"Sauna Capsula L", 2_050_000, 6, "6.5 x 2.4 m", "sauna", true},
		{"Sauna Capsula Panorama", 2_350_000, 4, "6.0 x 2.4 m", "sauna", true},
		{"Sauna Capsula Terrace", 2_550_000, 4, "6.5 x 2.4 m", "sauna", true},
		{"Sauna Capsula Nord", 1_950_000, 2, "5.5 x 2.4 m", "sauna", false},
	}
	for _, r := range rows {
		p := domain.Product{
			ID:          uuid.New(),
			Slug:        usecase.Slugify(r.name),
			Name:        r.name,
			Price:       r.price,
			Dimensions:  r.dimensions,
			Guests:      r.guests,
			Category:    r.category,
			InStock:     r.inStock,
			Description: fmt.Sprintf("%s capsule house, sleeps %d.", r.name, r.guests),
		}
		_ = db.Create(&p).Error
	}
}

func seedPages(db *gorm.DB) {
	home := &domain.PageContent{Slug: "home", Kind: domain.PageKindHome}
	_ = home.SetPayload(domain.HomeContent{
		HeroTitle:    "Capsule houses for any landscape",
		HeroSubtitle: "Factory-built, delivered ready to live in",
		Innovations: []domain.FeatureItem{
			{ID: 1, Icon: "insulation", Title: "All-season insulation", Description: "Comfortable from -40 to +40"},
			{ID: 2, Icon: "frame", Title: "Steel frame", Description: "Engineered for transport and decades of use"},
			{ID: 3, Icon: "glass", Title: "Panoramic glazing", Description: "Double-chamber low-emission glass"},
		},
	})
	_ = db.Save(home).Error

	options := &domain.PageContent{Slug: "options", Kind: domain.PageKindOptions}
	_ = options.SetPayload(domain.OptionsContent{
		Intro: "Extend your capsule",
		AdditionalOptions: []domain.OptionItem{
			{ID: 1, Title: "Terrace deck", Description: "Composite decking, 12 m²", Price: 180_000},
			{ID: 2, Title: "Pellet stove", Description: "Autonomous heating", Price: 95_000},
			{ID: 3, Title: "Smart home kit", Description: "Climate and lighting control", Price: 120_000},
		},
	})
	_ = db.Save(options).Error

	blocks := []domain.PageBlock{
		{ID: uuid.New(), PageSlug: "home", Type: "hero", Enabled: true, Position: 0},
		{ID: uuid.New(), PageSlug: "home", Type: "catalog", Enabled: true, Position: 1},
		{ID: uuid.New(), PageSlug: "home", Type: "innovations", Enabled: true, Position: 2},
		{ID: uuid.New(), PageSlug: "home", Type: "reviews", Enabled: false, Position: 3},
		{ID: uuid.New(), PageSlug: "home", Type: "contact", Enabled: true, Position: 4},
	}
	for i := range blocks {
		_ = db.Save(&blocks[i]).Error
	}
}
