package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/code-with-shadow/adhunik-art/internal/storefront"
	"github.com/code-with-shadow/adhunik-art/internal/storefront/cart"
	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/paypal"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

const usage = `usage: storefront <command> [flags]

commands:
  add <painting-id>   fetch a painting and put it in the cart
  remove <id>         drop a painting from the cart
  list                refresh availability and print the cart
  clear               empty the cart
  quote               price the cart (-country)
  begin               create a gateway order for the cart (-country)
  complete            verify a captured gateway order (-ref + buyer flags)
  cod                 place a cash-on-delivery order (buyer flags)
`

type app struct {
	cart     *cart.Cart
	client   *storefront.Client
	verifier *storefront.Verifier
	flow     *storefront.Checkout
	logg     *logger.Logger
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		os.Stderr.WriteString(usage)
		os.Exit(2)
	}

	var cfg config.StorefrontConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		die("config: %v", err)
	}
	if cfg.CartPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			die("resolve home dir: %v", err)
		}
		cfg.CartPath = filepath.Join(home, ".adhunik", "cart.json")
	}

	logg := logger.New(logger.Options{ServiceName: "adhunik-storefront", Level: zerolog.WarnLevel})

	store, err := cart.NewFileStore(cfg.CartPath)
	if err != nil {
		die("cart store: %v", err)
	}
	buyerCart := cart.New(store)

	client, err := storefront.NewClient(cfg)
	if err != nil {
		die("api client: %v", err)
	}
	verifier, err := storefront.NewVerifier(buyerCart, client, logg)
	if err != nil {
		die("verifier: %v", err)
	}

	ctx := context.Background()
	a := &app{cart: buyerCart, client: client, verifier: verifier, logg: logg}

	command := os.Args[1]
	args := os.Args[2:]

	// The gateway is only dialed for prepaid begin; every other command,
	// COD included, works without PayPal credentials.
	var gateway storefront.GatewayOrders
	if command == "begin" {
		var ppCfg config.PayPalConfig
		if err := envconfig.Process(config.EnvPrefix, &ppCfg); err != nil {
			die("paypal config: %v", err)
		}
		ppClient, err := paypal.NewClient(ctx, ppCfg, logg)
		if err != nil {
			die("paypal client: %v", err)
		}
		gateway = ppClient
	}
	a.flow, err = storefront.NewCheckout(buyerCart, verifier, client, gateway, logg)
	if err != nil {
		die("checkout flow: %v", err)
	}

	if err := a.run(ctx, command, args); err != nil {
		die("%v", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add":
		return a.add(ctx, args)
	case "remove":
		return a.remove(args)
	case "list":
		return a.list(ctx)
	case "clear":
		return a.cart.Clear()
	case "quote":
		return a.quote(args)
	case "begin":
		return a.begin(ctx, args)
	case "complete":
		return a.complete(ctx, args)
	case "cod":
		return a.cod(ctx, args)
	}
	os.Stderr.WriteString(usage)
	os.Exit(2)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("add expects exactly one painting id")
	}

	paintings, err := a.client.LookupPaintings(ctx, []string{args[0]})
	if err != nil {
		return err
	}
	if len(paintings) == 0 {
		return fmt.Errorf("painting %s not found", args[0])
	}
	snapshot := storefront.SnapshotOf(paintings[0])
	if snapshot.IsSold {
		return fmt.Errorf("painting %q has already been sold", snapshot.Title)
	}
	if err := a.cart.Add(snapshot); err != nil {
		return err
	}
	fmt.Printf("added %q (%d items in cart)\n", snapshot.Title, a.cart.Len())
	return nil
}

func (a *app) remove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("remove expects exactly one painting id")
	}
	if err := a.cart.Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("%d items in cart\n", a.cart.Len())
	return nil
}

func (a *app) list(ctx context.Context) error {
	a.verifier.Refresh(ctx)
	entries := a.cart.Entries()
	if len(entries) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, entry := range entries {
		marker := ""
		if entry.IsSold {
			marker = "  [SOLD]"
		}
		fmt.Printf("%s  %s  $%s / ₹%s%s\n",
			entry.ID, entry.Title, entry.PriceUSD.StringFixed(2), entry.PriceINR.StringFixed(2), marker)
	}
	return nil
}

func (a *app) quote(args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	country := fs.String("country", "", "shipping country")
	if err := fs.Parse(args); err != nil {
		return err
	}

	quote, err := a.flow.Quote(*country)
	if err != nil {
		return err
	}
	if quote.ExcludedSold > 0 {
		fmt.Printf("%d sold item(s) excluded; remove them to dismiss this notice\n", quote.ExcludedSold)
	}
	fmt.Printf("%d item(s), total %s %s\n", len(quote.ItemIDs), quote.Total.StringFixed(2), quote.Currency)
	return nil
}

func (a *app) begin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("begin", flag.ExitOnError)
	country := fs.String("country", "", "shipping country")
	if err := fs.Parse(args); err != nil {
		return err
	}

	attempt, err := a.flow.BeginPrepaid(ctx, *country)
	if err != nil {
		return err
	}
	fmt.Printf("gateway order %s created for %s %s\n", attempt.OrderRef, attempt.Quote.Total.StringFixed(2), attempt.Quote.Currency)
	fmt.Println("approve the payment, then run: storefront complete -ref " + attempt.OrderRef)
	return nil
}

func (a *app) complete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	ref := fs.String("ref", "", "gateway order reference")
	country := fs.String("country", "", "shipping country")
	buyer := buyerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ref == "" {
		return fmt.Errorf("-ref is required")
	}

	quote, err := a.flow.Quote(*country)
	if err != nil {
		return err
	}
	info := buyer.info(*country)
	orderID, err := a.flow.CompletePrepaid(ctx, &storefront.PrepaidAttempt{OrderRef: *ref, Quote: quote}, info)
	if err != nil {
		return err
	}
	fmt.Printf("order %s confirmed\n", orderID)
	return nil
}

func (a *app) cod(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cod", flag.ExitOnError)
	country := fs.String("country", "India", "shipping country")
	buyer := buyerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	orderID, err := a.flow.PlaceCOD(ctx, buyer.info(*country))
	if err != nil {
		return err
	}
	fmt.Printf("order %s placed; payment due on delivery\n", orderID)
	return nil
}

type buyerFlagSet struct {
	userID, name, email                          *string
	first, last, address, city, state, zip, phone *string
}

func buyerFlags(fs *flag.FlagSet) *buyerFlagSet {
	return &buyerFlagSet{
		userID:  fs.String("user", "", "buyer id"),
		name:    fs.String("name", "", "buyer display name"),
		email:   fs.String("email", "", "buyer email"),
		first:   fs.String("first", "", "shipping first name"),
		last:    fs.String("last", "", "shipping last name"),
		address: fs.String("address", "", "shipping address line"),
		city:    fs.String("city", "", "shipping city"),
		state:   fs.String("state", "", "shipping state"),
		zip:     fs.String("zip", "", "shipping zip code"),
		phone:   fs.String("phone", "", "shipping phone"),
	}
}

func (b *buyerFlagSet) info(country string) storefront.BuyerInfo {
	return storefront.BuyerInfo{
		UserID: *b.userID,
		Name:   *b.name,
		Email:  *b.email,
		Shipping: types.ShippingAddress{
			FirstName: *b.first,
			LastName:  *b.last,
			Line:      *b.address,
			City:      *b.city,
			State:     *b.state,
			ZipCode:   *b.zip,
			Country:   country,
			Phone:     *b.phone,
		},
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
