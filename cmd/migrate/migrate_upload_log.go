package main

import (
	"fmt"
	"log"
	"time"

	"Backend-Plotter/internal/app/dsn"
	"Backend-Plotter/internal/app/repository"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("=== Upload Log Migration ===")

	db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	startTime := time.Now()

	// 1. Проверяем подключение
	fmt.Println("1. Checking database connection...")
	var result int
	db.Raw("SELECT 1").Scan(&result)
	if result != 1 {
		log.Fatal("   ✗ Database connection failed")
	}
	fmt.Println("   ✓ Database connection successful")

	// 2. Таблица и индексы журнала
	fmt.Println("2. Migrating upload_logs table...")
	if err := repository.MigrateUploadLogs(db); err != nil {
		log.Fatal("Failed to migrate upload_logs:", err)
	}
	fmt.Println("   ✓ Table 'upload_logs' created/verified")

	// 3. Статистика по статусам
	fmt.Println("3. Checking data...")
	var counts struct {
		Total  int64
		Parsed int64
		Failed int64
	}

	db.Raw(`
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN status = 'parsed' THEN 1 END) as parsed,
			COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed
		FROM upload_logs
	`).Scan(&counts)

	fmt.Printf("   Total uploads: %d\n", counts.Total)
	fmt.Printf("   Parsed: %d\n", counts.Parsed)
	fmt.Printf("   Failed: %d\n", counts.Failed)

	if err := db.Exec("ANALYZE upload_logs").Error; err != nil {
		log.Printf("Warning analyzing table: %v", err)
	}

	fmt.Println("\n=== Migration Completed ===")
	fmt.Printf("Total time: %v\n", time.Since(startTime))
}
