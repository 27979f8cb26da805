// Command pos is a line-mode terminal against the ledger server: it signs
// in, keeps the session's cached collections, and exposes the day-to-day
// operations as subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"netobebidas/backend/internal/pos"
)

func main() {
	serverURL := flag.String("server", envOr("POS_SERVER_URL", "http://127.0.0.1:8080"), "ledger server base URL")
	username := flag.String("user", os.Getenv("POS_USERNAME"), "operator username")
	password := flag.String("pass", os.Getenv("POS_PASSWORD"), "operator password")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session := pos.NewSession(pos.NewAPIClient(*serverURL))
	if err := session.Login(ctx, *username, *password); err != nil {
		fail(err)
	}

	var err error
	switch args[0] {
	case "dashboard":
		err = runDashboard(session)
	case "sell":
		err = runSell(ctx, session, args[1:])
	case "pay":
		err = runPay(ctx, session, args[1:])
	case "customers":
		err = runCustomers(session, args[1:])
	case "products":
		err = runProducts(session, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pos [flags] <command>

commands:
  dashboard                       totals, top customers and 7-day revenue
  sell -customer ID -items A,B,B  commit a sale (one id per unit; -fiado for credit)
  pay -customer ID -amount N      record a debt payment
  customers [-q query]            list or search customers and balances
  products [-q query]             list or search the catalog`)
	flag.PrintDefaults()
}

func runDashboard(session *pos.Session) error {
	summary := session.Summary()
	fmt.Printf("vendido total:  R$ %.2f\n", summary.TotalSold)
	fmt.Printf("fiado em aberto: R$ %.2f\n", summary.TotalDebt)
	fmt.Printf("caixa:          R$ %.2f\n", summary.TotalCash)

	valuation := session.Valuation()
	fmt.Printf("\nestoque a custo: R$ %.2f\n", valuation.TotalCost)
	fmt.Printf("estoque a venda: R$ %.2f\n", valuation.PotentialRevenue)
	fmt.Printf("lucro potencial: R$ %.2f\n", valuation.PotentialProfit)

	fmt.Println("\nmelhores clientes:")
	for i, entry := range session.TopCustomers(5) {
		fmt.Printf("  %d. %-24s R$ %.2f\n", i+1, entry.CustomerName, entry.TotalValue)
	}

	fmt.Println("\nreceita (7 dias):")
	for _, point := range session.Revenue(7, "") {
		fmt.Printf("  %s  R$ %.2f\n", point.Label, point.Total)
	}
	return nil
}

func runSell(ctx context.Context, session *pos.Session, args []string) error {
	fs := flag.NewFlagSet("sell", flag.ExitOnError)
	customerID := fs.String("customer", "", "customer id")
	items := fs.String("items", "", "comma-separated product ids, one per unit")
	fiado := fs.Bool("fiado", false, "book the sale on credit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session.SelectCustomer(*customerID)
	for _, productID := range strings.Split(*items, ",") {
		productID = strings.TrimSpace(productID)
		if productID == "" {
			continue
		}
		if _, err := session.AddToCart(productID); err != nil {
			return err
		}
	}

	sale, err := session.FinishSale(ctx, !*fiado)
	if err != nil {
		return err
	}

	fmt.Printf("venda %s registrada: R$ %.2f", sale.ID, sale.TotalValue)
	if !sale.IsPaid {
		fmt.Print(" (fiado)")
	}
	fmt.Println()
	return nil
}

func runPay(ctx context.Context, session *pos.Session, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	customerID := fs.String("customer", "", "customer id")
	amount := fs.Float64("amount", 0, "payment amount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	customer, err := session.PayDebt(ctx, *customerID, *amount)
	if err != nil {
		return err
	}

	fmt.Printf("pagamento registrado. %s deve R$ %.2f\n", customer.Name, customer.Debt)
	return nil
}

func runCustomers(session *pos.Session, args []string) error {
	fs := flag.NewFlagSet("customers", flag.ExitOnError)
	query := fs.String("q", "", "name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, customer := range session.SearchCustomers(*query) {
		fmt.Printf("%-16s %-24s R$ %.2f\n", customer.ID, customer.Name, customer.Debt)
	}
	return nil
}

func runProducts(session *pos.Session, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	query := fs.String("q", "", "name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, product := range session.SearchProducts(*query) {
		fmt.Printf("%-20s %-28s R$ %7.2f  estoque %d\n", product.ID, product.Name, product.SellPrice, product.Stock)
	}
	return nil
}

func fail(err error) {
	feedback := pos.FeedbackFromError(err)
	log.Printf("%s (%v)", feedback.Message, err)
	os.Exit(1)
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
