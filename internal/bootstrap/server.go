package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ovchar/trainbook/api"
	"github.com/ovchar/trainbook/config"
	"github.com/ovchar/trainbook/internal/auth"
	"github.com/ovchar/trainbook/internal/repository"
	"github.com/ovchar/trainbook/internal/service/booking"
	"github.com/ovchar/trainbook/internal/service/catalog"
	"github.com/ovchar/trainbook/internal/service/payment"
	"github.com/sirupsen/logrus"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	log *logrus.Logger,
	users repository.UserRepository,
	catalogSvc catalog.CatalogUseCase,
	bookingSvc booking.BookingUseCase,
	paymentSvc payment.PaymentUseCase,
) error {
	router := newRouter(cfg, log, users, catalogSvc, bookingSvc, paymentSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.HTTP.Address).Info("http server starting")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(
	cfg *config.Config,
	log *logrus.Logger,
	users repository.UserRepository,
	catalogSvc catalog.CatalogUseCase,
	bookingSvc booking.BookingUseCase,
	paymentSvc payment.PaymentUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	stationHandler := api.NewStationHandler(catalogSvc, log)
	tripHandler := api.NewTripHandler(catalogSvc, log)
	bookingHandler := api.NewBookingHandler(bookingSvc, log)
	paymentHandler := api.NewPaymentHandler(paymentSvc, log)

	apiGroup := router.Group("/api")
	stationHandler.Register(apiGroup.Group("/stations"))
	tripHandler.Register(apiGroup.Group("/trips"))

	bookings := apiGroup.Group("/bookings", auth.Middleware(users))
	bookingHandler.Register(bookings)
	paymentHandler.Register(bookings)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs", func(c *gin.Context) {
			renderSwaggerUI(c.Writer, "/swagger/trainbook.openapi.json")
		})
	}

	return router
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request handled")
	}
}

func renderSwaggerUI(w http.ResponseWriter, jsonURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
    <html>
    <head>
        <title>API Docs</title>
        <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@latest/swagger-ui.css">
    </head>
    <body>
        <div id="swagger-ui"></div>
        <script src="https://unpkg.com/swagger-ui-dist@latest/swagger-ui-bundle.js"></script>
        <script>
            window.onload = function() {
                window.ui = SwaggerUIBundle({
                    url: "%s",
                    dom_id: '#swagger-ui'
                });
            };
        </script>
    </body>
    </html>`, jsonURL)

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
