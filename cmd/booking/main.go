package main

import (
	"github.com/joho/godotenv"

	planshandler "yoyaku/internal/plans/handler"
	plansrepo "yoyaku/internal/plans/repository"
	plansservice "yoyaku/internal/plans/service"
	plansvalidator "yoyaku/internal/plans/validator"
	reshandler "yoyaku/internal/reservations/handler"
	resrepo "yoyaku/internal/reservations/repository"
	resservice "yoyaku/internal/reservations/service"
	resvalidator "yoyaku/internal/reservations/validator"
	spotshandler "yoyaku/internal/spots/handler"
	spotsrepo "yoyaku/internal/spots/repository"
	spotsservice "yoyaku/internal/spots/service"
	spotsvalidator "yoyaku/internal/spots/validator"
	usershandler "yoyaku/internal/users/handler"
	usersrepo "yoyaku/internal/users/repository"
	usersservice "yoyaku/internal/users/service"
	usersvalidator "yoyaku/internal/users/validator"
	"yoyaku/pkg/app"
	"yoyaku/pkg/config"
	"yoyaku/pkg/kafka"
	kafkaconfig "yoyaku/pkg/kafka/config"
)

const serviceName = "booking"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(serviceName)
	cfg.SetMongo()

	userRepo := usersrepo.NewMongoUserRepository(cfg)
	spotRepo := spotsrepo.NewMongoBookingSpotRepository(cfg)
	planRepo := plansrepo.NewMongoPlanRepository(cfg)
	reservationRepo := resrepo.NewMongoReservationRepository(cfg)
	lockRepo := resrepo.NewMongoReservationLockRepository(cfg)

	events := setupEvents(cfg)

	userService := usersservice.NewUserService(
		userRepo,
		reservationRepo,
		usersvalidator.NewUserValidator(cfg.Log),
		cfg,
	)
	spotService := spotsservice.NewBookingSpotService(
		spotRepo,
		planRepo,
		reservationRepo,
		spotsvalidator.NewBookingSpotValidator(cfg.Log),
		cfg,
	)
	planService := plansservice.NewPlanService(
		planRepo,
		spotRepo,
		reservationRepo,
		plansvalidator.NewPlanValidator(cfg.Log),
		cfg,
	)
	reservationService := resservice.NewReservationService(
		reservationRepo,
		lockRepo,
		userRepo,
		planRepo,
		events,
		resvalidator.NewReservationValidator(cfg.Log),
		cfg,
	)

	application := app.NewApplication(cfg)
	application.SetApp(
		usershandler.NewUserHandler(userService, cfg.Log),
		spotshandler.NewBookingSpotHandler(spotService, cfg.Log),
		planshandler.NewPlanHandler(planService, cfg.Log),
		reshandler.NewReservationHandler(reservationService, cfg.Log),
	)
	application.Run()
}

// setupEvents wires the reservation event producer. Events are optional;
// a missing or misconfigured broker downgrades to no events rather than
// refusing to start.
func setupEvents(cfg *config.Config) resservice.EventPublisher {
	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Warn("Invalid Kafka configuration, events disabled", "error", err)
		return nil
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Kafka disabled, reservation events will not be published")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.TopicReservations, kafkaCfg.TopicReservationsDLQ)
	if err != nil {
		cfg.Log.Warn("Failed to create Kafka producer, events disabled", "error", err)
		return nil
	}

	cfg.Log.Info("Kafka producer configured",
		"topic", kafkaCfg.TopicReservations,
		"dlq_topic", kafkaCfg.TopicReservationsDLQ,
		"brokers", kafkaCfg.Brokers,
	)
	return producer
}
