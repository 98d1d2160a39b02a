package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "auth":
		err = handleAuth(args)
	case "bills":
		err = handleBills(args)
	case "dashboard":
		err = showDashboard(os.Stdout, newAPIClient(getAPIURL(), loadToken()))
	case "estimate":
		err = estimate(os.Stdout, args)
	case "help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func handleAuth(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: wattbill auth <signup|login|logout|who>")
		return nil
	}

	switch args[0] {
	case "signup":
		return signup(args[1:])
	case "login":
		return login(args[1:])
	case "logout":
		if err := os.Remove(tokenFile()); err != nil && !os.IsNotExist(err) {
			return err
		}
		fmt.Println("✓ Logged out")
		return nil
	case "who":
		return whoAmI(os.Stdout, loadToken())
	default:
		return fmt.Errorf("unknown auth command: %s", args[0])
	}
}

func handleBills(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: wattbill bills <list|add|pay|unpay|delete>")
		return nil
	}

	c := newAPIClient(getAPIURL(), loadToken())
	switch args[0] {
	case "list":
		return listBills(os.Stdout, c)
	case "add":
		return addBill(os.Stdout, c, args[1:])
	case "pay":
		return setStatus(os.Stdout, c, args[1:], "paid")
	case "unpay":
		return setStatus(os.Stdout, c, args[1:], "unpaid")
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: wattbill bills delete <bill-id>")
		}
		if err := c.do(http.MethodDelete, "/bills/"+args[1], nil, nil); err != nil {
			return err
		}
		fmt.Printf("✓ Bill deleted: %s\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown bills command: %s", args[0])
	}
}

// Auth commands
func signup(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *username == "" || *password == "" {
		fs.PrintDefaults()
		return fmt.Errorf("username, email and password are required")
	}

	var res struct {
		Message string `json:"message"`
	}
	payload := map[string]string{"username": *username, "email": *email, "password": *password}
	if err := newAPIClient(getAPIURL(), "").do(http.MethodPost, "/signup", payload, &res); err != nil {
		return err
	}
	fmt.Printf("✓ %s: %s\n", res.Message, *email)
	return nil
}

func login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fs.PrintDefaults()
		return fmt.Errorf("email and password are required")
	}

	var res struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	payload := map[string]string{"email": *email, "password": *password}
	if err := newAPIClient(getAPIURL(), "").do(http.MethodPost, "/login", payload, &res); err != nil {
		return err
	}
	if err := saveToken(res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Printf("✓ Logged in as: %s\n", res.Username)
	return nil
}

// whoAmI prints the cached token's claims. The signature is not checked here;
// the server does that on every request.
func whoAmI(w io.Writer, token string) error {
	if token == "" {
		fmt.Fprintln(w, "Not logged in")
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("cached token is unreadable: %w", err)
	}

	fmt.Fprintf(w, "✓ Logged in as %v <%v>\n", claims["username"], claims["email"])
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		state := "valid until"
		if exp.Before(time.Now()) {
			state = "expired at"
		}
		fmt.Fprintf(w, "  token %s %s\n", state, exp.Local().Format(time.RFC1123))
	}
	return nil
}

// Bill commands
type bill struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customerName"`
	Units        float64 `json:"units"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
	DueDate      string  `json:"dueDate"`
	Status       string  `json:"status"`
}

func listBills(w io.Writer, c *apiClient) error {
	var bills []bill
	if err := c.do(http.MethodGet, "/bills", nil, &bills); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tUNITS\tRATE\tAMOUNT\tDUE\tSTATUS")
	for _, b := range bills {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%.2f\t%s\t%s\n", b.ID, b.CustomerName, b.Units, b.Rate, b.Amount, b.DueDate, b.Status)
	}
	return tw.Flush()
}

func addBill(w io.Writer, c *apiClient, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	customer := fs.String("customer", "", "customer name")
	units := fs.Float64("units", 0, "units consumed")
	rate := fs.Float64("rate", 0, "price per unit")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	fs.Parse(args)

	payload := map[string]any{"customerName": *customer, "units": *units, "rate": *rate, "dueDate": *due}
	var created bill
	if err := c.do(http.MethodPost, "/bills", payload, &created); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Bill %s created for %s: %.2f due %s\n", created.ID, created.CustomerName, created.Amount, created.DueDate)
	return nil
}

func setStatus(w io.Writer, c *apiClient, args []string, status string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: wattbill bills %s <bill-id>", map[string]string{"paid": "pay", "unpaid": "unpay"}[status])
	}
	var updated bill
	if err := c.do(http.MethodPatch, "/bills/"+args[0], map[string]string{"status": status}, &updated); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Bill %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func showDashboard(w io.Writer, c *apiClient) error {
	var snap struct {
		TotalBills        int                `json:"totalBills"`
		PaidBills         int                `json:"paidBills"`
		UnpaidBills       int                `json:"unpaidBills"`
		TotalPaidAmount   float64            `json:"totalPaidAmount"`
		TotalUnpaidAmount float64            `json:"totalUnpaidAmount"`
		MonthlyExpense    map[string]float64 `json:"monthlyExpense"`
		RecentBills       []bill             `json:"recentBills"`
	}
	if err := c.do(http.MethodGet, "/dashboard", nil, &snap); err != nil {
		return err
	}

	fmt.Fprintf(w, "Bills: %d (paid %d, unpaid %d)\n", snap.TotalBills, snap.PaidBills, snap.UnpaidBills)
	fmt.Fprintf(w, "Paid: %.2f  Unpaid: %.2f\n\n", snap.TotalPaidAmount, snap.TotalUnpaidAmount)

	months := make([]string, 0, len(snap.MonthlyExpense))
	for m := range snap.MonthlyExpense {
		months = append(months, m)
	}
	sort.Strings(months)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tAMOUNT")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%.2f\n", m, snap.MonthlyExpense[m])
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RECENT\tCUSTOMER\tAMOUNT\tSTATUS")
	for _, b := range snap.RecentBills {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", b.ID, b.CustomerName, b.Amount, b.Status)
	}
	return tw.Flush()
}

func estimate(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	units := fs.Float64("units", 0, "units consumed")
	rate := fs.Float64("rate", 0, "price per unit")
	fs.Parse(args)

	var res struct {
		Estimate float64 `json:"estimate"`
	}
	payload := map[string]float64{"units": *units, "rate": *rate}
	if err := newAPIClient(getAPIURL(), "").do(http.MethodPost, "/estimate", payload, &res); err != nil {
		return err
	}
	fmt.Fprintf(w, "Estimated bill: %.2f\n", res.Estimate)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `wattbill CLI

Usage:
  wattbill <command> [options]

Commands:
  auth       Authentication (signup, login, logout, who)
  bills      Bill operations (list, add, pay, unpay, delete)
  dashboard  Show paid/unpaid totals, monthly expense and recent bills
  estimate   Price a consumption figure
  help       Show this help message

Environment Variables:
  WATTBILL_API_URL    API endpoint (default: http://localhost:5000/api)

Examples:
  wattbill auth signup -username admin -email admin@example.com -password pass
  wattbill auth login -email admin@example.com -password pass
  wattbill bills add -customer "Jane Doe" -units 120 -rate 6.5 -due 2024-03-15
  wattbill bills pay 65a1b2c3d4e5f6a7b8c9d0e1
  wattbill estimate -units 120 -rate 6.5
`)
}
