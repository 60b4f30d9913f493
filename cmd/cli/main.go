// Command kokictl runs operator tasks against the lottery database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/kokifi/lottery/infra/initializer"
	"github.com/kokifi/lottery/pkg/app"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Usage: kokictl <command> [arguments]
Commands:
  balance <username>
  grant-koki <username> <amount>
  grant-kotickets <username> <count>
  register <username> <email>
  draw
  weekly-fund <YYYY-MM-DD> <income>
  config get [key]
  config set <key> <value>`

var (
	errUsage = errors.New("invalid arguments")

	ok   = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// readPassword reads a password from the terminal without echo.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	cfg, err := config.Load(".env")
	if err != nil {
		fatal(err)
	}
	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = cleanup() }()

	err = execute(context.Background(), app.New(deps, cfg), os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		fmt.Println(usage)
	}
	if err != nil {
		_ = cleanup()
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
	os.Exit(1)
}

func execute(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "balance":
		if len(rest) != 1 {
			return errUsage
		}
		u, err := a.UserService.GetByIdentity(ctx, rest[0])
		if err != nil {
			return err
		}
		kokiBalance, err := a.KokiService.GetBalance(ctx, u.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  balance=%d  koki=%d  tickets=%d  spent=%d\n",
			bold(u.Username), u.Balance, kokiBalance, u.TicketsCount, u.TotalSpent)

	case "grant-koki":
		if len(rest) != 2 {
			return errUsage
		}
		u, amount, err := userAndCount(ctx, a, rest)
		if err != nil {
			return err
		}
		tx, err := a.KokiService.AddPoints(ctx, u.ID, amount, koki.TypeBonus, koki.SourceAdmin, nil,
			"Bonificación administrativa")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s granted %d KOKI to %s (%s)\n", ok("✔"), tx.Amount, u.Username, tx.ID)

	case "grant-kotickets":
		if len(rest) != 2 {
			return errUsage
		}
		u, n, err := userAndCount(ctx, a, rest)
		if err != nil {
			return err
		}
		if err := a.KoTicketService.Grant(ctx, u.ID, int(n)); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s granted %d KoTickets to %s\n", ok("✔"), n, u.Username)

	case "register":
		if len(rest) != 2 {
			return errUsage
		}
		fmt.Fprint(out, "Password: ")
		password, err := readPassword()
		fmt.Fprintln(out)
		if err != nil {
			return err
		}
		u, err := a.UserService.Register(ctx, rest[0], rest[1], string(password))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s registered %s (%s) with balance %d\n", ok("✔"), u.Username, u.ID, u.Balance)

	case "draw":
		res, err := a.DrawRunner.RunDraw(ctx)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(out, warn("nothing to draw: the active lottery is still open"))
			return nil
		}
		fmt.Fprintln(out, ok(res.Summary()))

	case "weekly-fund":
		if len(rest) != 2 {
			return errUsage
		}
		weekStart, err := time.Parse(time.DateOnly, rest[0])
		if err != nil {
			return fmt.Errorf("%w: week start %q", errUsage, rest[0])
		}
		income, err := decimal.NewFromString(rest[1])
		if err != nil {
			return fmt.Errorf("%w: income %q", errUsage, rest[1])
		}
		f, err := a.FundService.CreateWeeklyFund(ctx, weekStart, income)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s week %s: capital=%s prize=%s profit=%s\n", ok("✔"),
			f.WeekStart.Format(time.DateOnly), f.CapitalBase, f.PrizeFund, f.NetProfit)

	case "config":
		return configCmd(ctx, a, rest, out)

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	return nil
}

func configCmd(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	switch {
	case len(args) >= 1 && len(args) <= 2 && args[0] == "get":
		values, err := a.ConfigService.Values(ctx)
		if err != nil {
			return err
		}
		if len(args) == 2 {
			v, found := values[args[1]]
			if !found {
				return fmt.Errorf("unknown key %q", args[1])
			}
			fmt.Fprintln(out, v)
			return nil
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s = %s\n", bold(k), values[k])
		}
		return nil
	case len(args) == 3 && args[0] == "set":
		if err := a.ConfigService.Set(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s = %s\n", ok("✔"), args[1], args[2])
		return nil
	}
	return errUsage
}

func userAndCount(ctx context.Context, a *app.App, args []string) (*user.User, int64, error) {
	n, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || n <= 0 {
		return nil, 0, fmt.Errorf("%w: %q is not a positive number", errUsage, args[1])
	}
	u, err := a.UserService.GetByIdentity(ctx, args[0])
	if err != nil {
		return nil, 0, err
	}
	return u, n, nil
}
