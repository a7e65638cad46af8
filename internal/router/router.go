package router

import (
	"net/http"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/config"
	"github.com/Harshad932/Infinova-sub000/internal/database"
	"github.com/Harshad932/Infinova-sub000/internal/handlers"
	"github.com/Harshad932/Infinova-sub000/internal/repository"
	"github.com/Harshad932/Infinova-sub000/internal/services"
	"github.com/Harshad932/Infinova-sub000/internal/utils"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// registerPhoneRule teaches the binding validator the phone format used
// by the registration DTOs.
func registerPhoneRule() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return utils.IsValidPhone(fl.Field().String())
		})
	}
}

func Setup(log *zap.Logger) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	registerPhoneRule()

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // One day covers any plausible flow resume
	})
	router.Use(sessions.Sessions("infinova_flow", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Repositories and services
	testRepo := repository.NewTestRepo(database.DB)
	participantRepo := repository.NewParticipantRepo(database.DB)
	passcodeRepo := repository.NewPasscodeRepo(database.DB)
	sessionRepo := repository.NewSessionRepo(database.DB)
	responseRepo := repository.NewResponseRepo(database.DB)
	resultsRepo := repository.NewResultsRepo(database.DB)

	notifier := services.NewEmailNotifier(log)
	lifecycleService := services.NewLifecycleService(log, testRepo, config.Conf.JoinCode)
	registrationService := services.NewRegistrationService(
		log, testRepo, participantRepo, passcodeRepo, sessionRepo, notifier, config.Conf.Passcode)
	sessionService := services.NewSessionService(log, testRepo, sessionRepo, config.Conf.Session)
	deliveryService := services.NewDeliveryService(log, testRepo, sessionRepo)
	intakeService := services.NewIntakeService(log, testRepo, sessionRepo, responseRepo)
	resultsService := services.NewResultsService(log, sessionRepo, responseRepo, resultsRepo)

	// Handlers
	adminHandler := handlers.NewAdminHandler(log, lifecycleService, resultsService)
	registrationHandler := handlers.NewRegistrationHandler(log, registrationService)
	sessionHandler := handlers.NewSessionHandler(log, sessionService, deliveryService, intakeService)
	resultsHandler := handlers.NewResultsHandler(log, resultsService)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")

	admin := api.Group("/admin")
	{
		admin.POST("/tests", adminHandler.ImportTest)
		admin.POST("/tests/:id/publish", adminHandler.Publish)
		admin.POST("/tests/:id/unpublish", adminHandler.Unpublish)
		admin.POST("/tests/:id/generate-code", adminHandler.GenerateCode)
		admin.POST("/tests/:id/activate", adminHandler.Activate)
		admin.POST("/tests/:id/end", adminHandler.End)
		admin.GET("/tests/:id/results", adminHandler.OverallResults)
	}

	tests := api.Group("/tests/:id")
	{
		tests.POST("/register", limiter, registrationHandler.Register)
		tests.POST("/verify-passcode", registrationHandler.VerifyPasscode)
		tests.POST("/resend-passcode", limiter, registrationHandler.ResendPasscode)
		tests.POST("/verify-code", registrationHandler.VerifyJoinCode)

		tests.POST("/session/start", sessionHandler.Start)
		tests.GET("/session/question/:index", sessionHandler.FetchQuestion)
		tests.POST("/session/answer", sessionHandler.SubmitAnswer)
		tests.POST("/session/heartbeat", sessionHandler.Heartbeat)
		tests.POST("/session/abandon", sessionHandler.Abandon)

		tests.GET("/results/categories", resultsHandler.CategoryResults)
		tests.GET("/results/subcategories", resultsHandler.SubcategoryResults)
	}

	return router
}
