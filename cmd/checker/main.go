// Command checker evaluates a list of buyer accounts against the stored
// order history for one prospective purchase and reports which accounts are
// available.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Barry-Eisenberg/TicketFusion/internal/app"
	"github.com/Barry-Eisenberg/TicketFusion/internal/clock"
	"github.com/Barry-Eisenberg/TicketFusion/internal/config"
	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
	"github.com/Barry-Eisenberg/TicketFusion/internal/ingest"
	"github.com/Barry-Eisenberg/TicketFusion/internal/report"
	"github.com/Barry-Eisenberg/TicketFusion/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
)

func main() {
	accountsCSV := pflag.String("accounts-csv", "", "path to a CSV with account emails (column named 'email' or first column)")
	dbURL := pflag.String("db-url", "", "database URL (defaults to DATABASE_URL)")
	event := pflag.String("event", "", "prospective event name")
	theater := pflag.String("theater", "", "prospective theater or venue name")
	eventDate := pflag.String("event-date", "", "prospective event date (YYYY-MM-DD)")
	soldDate := pflag.String("sold-date", "", "prospective sold date (YYYY-MM-DD)")
	quantity := pflag.Int("cnt", 1, "prospective ticket count")
	outPath := pflag.String("out", "", "optional path for a CSV report of the results")
	pflag.Parse()

	if *accountsCSV == "" {
		log.Fatalf("--accounts-csv is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbURL == "" {
		*dbURL = cfg.DatabaseURL
	}

	prospective, err := buildProspective(*event, *theater, *eventDate, *soldDate, *quantity)
	if err != nil {
		log.Fatalf("%v", err)
	}

	emails, err := readAccounts(*accountsCSV)
	if err != nil {
		log.Fatalf("read accounts: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	svc := app.NewCheckService(postgres.NewOrderRepository(pool), clock.NewSystem())
	result, err := svc.CheckAccounts(ctx, app.CheckAccountsInput{
		Emails:      emails,
		Prospective: prospective,
	})
	if err != nil {
		log.Fatalf("check accounts: %v", err)
	}

	printResults(result)

	if *outPath != "" {
		if err := writeReport(*outPath, result.Results); err != nil {
			log.Fatalf("write report: %v", err)
		}
		fmt.Printf("\nReport written to %s\n", *outPath)
	}
}

func buildProspective(event, theater, eventDate, soldDate string, quantity int) (domain.Prospective, error) {
	p := domain.Prospective{
		Quantity: quantity,
		Event:    event,
		Theater:  theater,
	}
	var err error
	if p.EventDate, err = parseFlagDate("event-date", eventDate); err != nil {
		return domain.Prospective{}, err
	}
	if p.SoldDate, err = parseFlagDate("sold-date", soldDate); err != nil {
		return domain.Prospective{}, err
	}
	return p, nil
}

func parseFlagDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", name, value)
	}
	t = t.UTC()
	return &t, nil
}

func readAccounts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ingest.ReadAccounts(file)
}

func printResults(result app.BatchResult) {
	fmt.Println("\nAvailable emails:")
	for _, res := range result.Results {
		if res.Decision.Available {
			fmt.Printf("   %s\n", res.Email)
		}
	}

	fmt.Println("\nUnavailable emails (with reasons):")
	for _, res := range result.Results {
		if res.Decision.Available {
			continue
		}
		fmt.Printf("- %s\n", res.Email)
		for _, v := range res.Decision.Violations {
			fmt.Printf("    - %s\n", v.Message)
		}
	}

	fmt.Printf("\nSummary: %d available, %d unavailable\n", result.Available, result.Unavailable)
}

func writeReport(path string, results []app.AccountResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(file, results); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
