package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"

	"go-helpdesk-api/internal/ledger"
	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/pkg/database"
	"go-helpdesk-api/pkg/timeutil"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Imports a CSV dump of the old spareparts table. Expected columns:
// part_name,part_code,category,quantity,remarks,created_at
// The remarks column carries the old substring convention
// ([PENDING]/[APPROVED] and [MASUK]/[KELUAR]); rows whose remarks decode to
// neither lifecycle state are reported and skipped rather than guessed at.
func main() {
	file := flag.String("file", "", "path to spareparts CSV dump")
	flag.Parse()
	if *file == "" {
		log.Fatal("usage: import-legacy -file spareparts.csv")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	zapLog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLog.Sync()

	db, err := database.ConnectDB()
	if err != nil {
		zapLog.Fatal("database connection failed", zap.Error(err))
	}
	movementRepo := repository.NewMovementRepo(db)

	f, err := os.Open(*file)
	if err != nil {
		zapLog.Fatal("cannot open dump", zap.Error(err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Header row
	if _, err := r.Read(); err != nil {
		zapLog.Fatal("cannot read header", zap.Error(err))
	}

	var imported, skipped int
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zapLog.Fatal("read failed", zap.Int("line", line), zap.Error(err))
		}
		if len(record) < 6 {
			zapLog.Warn("short row skipped", zap.Int("line", line))
			skipped++
			continue
		}

		qty, err := strconv.Atoi(record[3])
		if err != nil {
			zapLog.Warn("bad quantity skipped", zap.Int("line", line), zap.String("value", record[3]))
			skipped++
			continue
		}

		remarks, err := ledger.ParseRemarks(record[4])
		if err != nil {
			zapLog.Warn("undecodable remarks skipped", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}

		recordedAt, err := timeutil.ParseDB(record[5])
		if err != nil {
			zapLog.Warn("bad timestamp skipped", zap.Int("line", line), zap.String("value", record[5]))
			skipped++
			continue
		}

		// Old rows are not guaranteed a direction tag; the stored quantity
		// was already signed, so fall back to its sign.
		direction := remarks.Direction
		if direction == "" {
			direction = ledger.InferDirection(qty)
		}

		m := &model.Movement{
			PartName:   record[0],
			PartCode:   record[1],
			Category:   record[2],
			Quantity:   ledger.SignedQuantity(direction, qty),
			Direction:  direction,
			State:      remarks.State,
			Actor:      remarks.Actor,
			Note:       remarks.Note,
			RecordedAt: recordedAt,
		}
		m.CreatedBy = "import-legacy"
		m.UpdatedBy = "import-legacy"
		if remarks.State == model.StateApproved {
			m.ApprovedBy = &remarks.Actor
			m.ApprovedAt = &recordedAt
		}

		if err := movementRepo.Create(m); err != nil {
			zapLog.Fatal("insert failed", zap.Int("line", line), zap.Error(err))
		}
		imported++
	}

	// The incremental view knows nothing about bulk inserts.
	if err := movementRepo.RebuildStockLevels(); err != nil {
		zapLog.Fatal("stock rebuild failed", zap.Error(err))
	}

	// Cross-check: the in-memory sum over everything we now hold must agree
	// with what the database will serve.
	all, err := movementRepo.FindAll()
	if err != nil {
		zapLog.Fatal("post-import read failed", zap.Error(err))
	}
	totals := ledger.Sum(all)
	stock, err := movementRepo.CurrentStock(repository.StockFilter{})
	if err != nil {
		zapLog.Fatal("post-import aggregate failed", zap.Error(err))
	}
	for _, s := range stock {
		if totals[s.PartKey] != s.Stock {
			zapLog.Fatal("stock mismatch after import",
				zap.String("part", s.PartCode),
				zap.Int("db", s.Stock),
				zap.Int("ledger", totals[s.PartKey]))
		}
	}

	zapLog.Info("import finished",
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
		zap.Int("parts", len(totals)))
}
