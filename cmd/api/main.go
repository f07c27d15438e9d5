package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"salespring-checkout/internal/config"
	"salespring-checkout/internal/db"
	"salespring-checkout/internal/httpserver"
	cartrepo "salespring-checkout/internal/repository/cart"
	discountrepo "salespring-checkout/internal/repository/discount"
	rewardsrepo "salespring-checkout/internal/repository/rewards"
	selectionrepo "salespring-checkout/internal/repository/selection"
	cartsvc "salespring-checkout/internal/service/cart"
	checkoutsvc "salespring-checkout/internal/service/checkout"
	discountsvc "salespring-checkout/internal/service/discount"
	rewardssvc "salespring-checkout/internal/service/rewards"
	selectionsvc "salespring-checkout/internal/service/selection"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartRepo := cartrepo.NewPostgres(dbpool)
	selectionRepo := selectionrepo.NewPostgres(dbpool)
	discountRepo := discountrepo.NewPostgres(dbpool)
	rewardsRepo := rewardsrepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo)
	selectionService := selectionsvc.New(selectionRepo)
	discountService := discountsvc.New(discountRepo)
	rewardsService := rewardssvc.New(rewardsRepo, cfg.EarnRate, cfg.PointValue)
	checkoutService := checkoutsvc.New(cartRepo, selectionService, discountService, rewardsService, checkoutsvc.ShippingRule{
		FlatFee:       cfg.ShippingFlatFee,
		FreeThreshold: cfg.ShippingFreeThreshold,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:      cartService,
		SelectionSvc: selectionService,
		CheckoutSvc:  checkoutService,
		RewardsSvc:   rewardsService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
