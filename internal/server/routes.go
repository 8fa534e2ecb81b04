package server

import (
	"bookstore/internal/config"
	"bookstore/internal/domain/model"
	"bookstore/internal/handler"
	infraRepo "bookstore/internal/infra/repository"
	"bookstore/internal/infra/token"
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"
	auth "bookstore/internal/usecase/auth_usecase"
	"bookstore/internal/validator"

	"github.com/labstack/echo/v4"
)

// repository → usecase → handler を組み立ててルートを登録する
func RegisterRoutes(e *echo.Echo, cfg config.Config, deps Deps) {
	gdb := deps.DB

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gdb)
	bookRepo := infraRepo.NewBookGormRepository(gdb)
	authorRepo := infraRepo.NewAuthorGormRepository(gdb)
	publisherRepo := infraRepo.NewPublisherGormRepository(gdb)
	cartRepo := infraRepo.NewCartGormRepository(gdb)
	salesRepo := infraRepo.NewSalesGormRepository(gdb)
	orderRepo := infraRepo.NewPublisherOrderGormRepository(gdb)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gdb)
	reportRepo := infraRepo.NewReportGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(deps.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	sessions := token.NewJWT(cfg.JWTSecret, cfg.SessionTTL)
	v := validator.NewAuthValidator(userRepo)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(txm, v, hasher, deps.Clock)
	loginUC := auth.NewLoginUsecase(userRepo, v, verifier, sessions, deps.Clock)
	profileUC := auth.NewProfileUsecase(txm, userRepo, v, hasher, sessions, deps.Clock)
	catalogUC := usecase.NewCatalogUsecase(bookRepo, deps.Cache)
	cartUC := usecase.NewCartUsecase(txm, cartRepo, cartRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txm, cartRepo, cartRepo, salesRepo, deps.IDs, deps.Clock, deps.Events, deps.Cache, cfg.ReorderQuantity)
	adminBookUC := usecase.NewAdminBookUsecase(txm, bookRepo, authorRepo, publisherRepo, auditRepo, deps.Clock, deps.Cache)
	orderUC := usecase.NewPublisherOrderUsecase(txm, orderRepo, publisherRepo, deps.IDs, deps.Clock, deps.Events, deps.Cache)
	reportUC := usecase.NewReportUsecase(reportRepo, orderRepo, inventoryRepo, deps.Clock)

	//全ページ共通：cookie → Identity、token_version照合
	e.Use(middleware.AuthSession(sessions))
	e.Use(middleware.TokenVersionGuard(userRepo))

	e.GET("/healthz", handler.Healthz)

	handler.NewCatalogHandler(catalogUC).RegisterRoutes(e)
	handler.NewAuthHandler(registerUC, loginUC, profileUC, cfg.CookieSecure).RegisterRoutes(e)
	handler.NewCartHandler(cartUC).RegisterRoutes(e)
	handler.NewOrderHandler(checkoutUC).RegisterRoutes(e)

	admin := e.Group("/admin", middleware.RequireCapability(model.CanAdminister))
	handler.NewAdminBookHandler(adminBookUC).RegisterRoutes(admin)
	handler.NewAdminOrderHandler(orderUC).RegisterRoutes(admin)
	handler.NewAdminReportHandler(reportUC).RegisterRoutes(admin)
}
