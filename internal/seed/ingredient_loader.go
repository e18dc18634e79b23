package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadIngredients ingests the CSV catalog into the ingredients table,
// ignoring names that already exist. Seeded rows start at zero stock;
// deliveries bring the quantities up.
func LoadIngredients(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load ingredient catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read ingredient header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start ingredient transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO ingredients (name, unit, unit_price) VALUES (?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare ingredient insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read ingredient row: %v", err)
			continue
		}
		if len(record) < 3 {
			continue
		}
		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		unitPrice := strings.TrimSpace(record[2])

		if name == "" || unit == "" {
			continue
		}
		if unitPrice == "" {
			unitPrice = "0"
		}

		if _, err := stmt.Exec(name, unit, unitPrice); err != nil {
			log.Printf("unable to insert ingredient %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit ingredient seed: %v", err)
	} else {
		log.Printf("seeded ingredient catalog with %d rows", rows)
	}
}
