package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/repository/specification"
	"video-saas-be/internal/repository/unitofwork"
	"video-saas-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var userFlag = flag.String("user", "", "User id to give an active subscription (optional)")
var packageFlag = flag.String("package", "Starter", "Package the user subscribes to")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	repo := uow.SubscriptionRepository()

	color.Cyan("Seeding subscription packages...")

	packages := []*entity.SubscriptionPackage{
		{SubscriptionType: "Starter", SubDurType: entity.DurationMonthly, UploadVideoLimit: 5, GenerateClips: 20, TotalMin: 60,
			Features: []string{"5 uploads per month", "20 clips per month", "60 minutes of processing"}},
		{SubscriptionType: "Pro", SubDurType: entity.DurationMonthly, UploadVideoLimit: 30, GenerateClips: 150, TotalMin: 600,
			Features: []string{"30 uploads per month", "150 clips per month", "Priority processing"}},
		{SubscriptionType: "Studio", SubDurType: entity.DurationYearly, UploadVideoLimit: entity.Unlimited, GenerateClips: entity.Unlimited, TotalMin: entity.Unlimited,
			Features: []string{"Unlimited uploads", "Unlimited clips", "Unlimited minutes"}},
	}

	existing, err := repo.FindAllPackages(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to load packages: %v", err)
	}
	byName := make(map[string]*entity.SubscriptionPackage, len(existing))
	for _, p := range existing {
		byName[p.SubscriptionType] = p
	}

	for _, p := range packages {
		if found, ok := byName[p.SubscriptionType]; ok {
			color.Yellow("  = %s already exists (%s)", p.SubscriptionType, found.Id)
			continue
		}
		p.Id = uuid.New()
		if err := repo.CreatePackage(ctx, p); err != nil {
			color.Red("  ! %s: %v", p.SubscriptionType, err)
			continue
		}
		byName[p.SubscriptionType] = p
		color.Green("  + %s (%s)", p.SubscriptionType, p.Id)
	}

	if *userFlag == "" {
		return
	}

	userId, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatalf("Error: invalid -user: %v", err)
	}
	pkg, ok := byName[*packageFlag]
	if !ok {
		log.Fatalf("Error: unknown package %q", *packageFlag)
	}

	color.Cyan("Subscribing %s to %s...", userId, pkg.SubscriptionType)

	current, err := repo.FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CurrentSubscription{Now: time.Now()},
	)
	if err != nil {
		log.Fatalf("Error: Failed to look up subscription: %v", err)
	}
	if current != nil {
		color.Yellow("  = user already has an active subscription (%s)", current.Id)
		return
	}

	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}
	defer uow.Rollback()

	sub := &entity.Subscription{
		Id:                    uuid.New(),
		UserId:                userId,
		SubscriptionPackageId: pkg.Id,
		Status:                true,
	}
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		log.Fatalf("Error: Failed to create subscription: %v", err)
	}
	usage := &entity.SubscriptionUsage{Id: uuid.New(), SubscriptionId: sub.Id}
	if _, err := uow.SubscriptionRepository().CreateUsage(ctx, usage); err != nil {
		log.Fatalf("Error: Failed to open usage period: %v", err)
	}
	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Failed to commit: %v", err)
	}

	color.Green("  + subscription %s with usage period %s", sub.Id, usage.Id)
}
