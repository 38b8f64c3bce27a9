package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corriander/eve-telemetrics/internal/character"
	"github.com/corriander/eve-telemetrics/internal/marketlog"
	"github.com/corriander/eve-telemetrics/internal/model"
	"github.com/corriander/eve-telemetrics/internal/order"
	"github.com/corriander/eve-telemetrics/internal/place"
)

// marketOrder is what the order tables print.
type marketOrder interface {
	OrderID() (int64, error)
	TypeID() (int64, error)
	LocationID() (int64, error)
	IsBuyOrder() bool
	Price() (decimal.Decimal, error)
	Issued() (time.Time, error)
	Get(key string) (any, bool)
}

func writeOrders[O marketOrder](w io.Writer, orders []O) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tTYPE\tSIDE\tPRICE\tREMAIN\tLOCATION\tISSUED")
	for _, o := range orders {
		id, _ := o.OrderID()
		typ, _ := o.TypeID()
		loc, _ := o.LocationID()
		price, _ := o.Price()
		remain, _ := o.Get("volume_remain")
		if remain == nil {
			remain, _ = o.Get("vol_remaining")
		}
		issued := "-"
		if t, err := o.Issued(); err == nil {
			issued = t.Format(time.DateTime)
		}
		side := "sell"
		if o.IsBuyOrder() {
			side = "buy"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%v\t%d\t%s\n", id, typ, side, price.StringFixed(2), remain, loc, issued)
	}
	return tw.Flush()
}

func runMarket(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("market", a.out)
	regionArg := fs.String("region", "The Forge", "region name or id")
	typeArg := fs.String("type", "", "item name or id (default: all items)")
	stationArg := fs.String("station", "", "only show orders at this station (name or id)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolver, _, err := a.resolver(ctx)
	if err != nil {
		return err
	}
	region, err := resolver.Region(ctx, parseIdent(*regionArg))
	if err != nil {
		return err
	}

	var typeID *int64
	if *typeArg != "" {
		item, err := resolver.Item(ctx, parseIdent(*typeArg))
		if err != nil {
			return err
		}
		id := item.ID()
		typeID = &id
	}

	if _, err := region.UpdateMarket(ctx, typeID); err != nil {
		return err
	}

	orders := region.Orders()
	if *stationArg != "" {
		station, err := resolver.Station(ctx, parseIdent(*stationArg))
		if err != nil {
			return err
		}
		if station.RegionID() != region.ID() {
			return fmt.Errorf("station %s is not in %s", station.Name(), region.Name())
		}
		orders = station.Orders()
	}

	if typeID != nil {
		list := orders[*typeID]
		buy, sell := order.Split(list)
		fmt.Fprintf(a.out, "%s: %d buy, %d sell\n\n", region.Name(), len(buy), len(sell))
		return writeOrders(a.out, list)
	}

	types := make([]int64, 0, len(orders))
	for id := range orders {
		types = append(types, id)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tBUY\tSELL")
	for _, id := range types {
		name := "?"
		if item, err := resolver.Item(ctx, place.ID(id)); err == nil {
			name = item.Name()
		}
		buy, sell := order.Split(orders[id])
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", id, name, len(buy), len(sell))
	}
	return tw.Flush()
}

func runOrders(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("orders", a.out)
	history := fs.Bool("history", false, "show expired and cancelled orders instead")
	watch := fs.Duration("watch", 0, "poll open orders at this interval and report changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.character()
	if err != nil {
		return err
	}
	name, err := c.Name(ctx)
	if err != nil {
		return err
	}

	if *history {
		orders, err := c.HistoricOrders(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %d historic orders\n\n", name, len(orders))
		return writeOrders(a.out, orders)
	}

	if *watch > 0 {
		return watchOrders(ctx, a, c, *watch)
	}

	orders, err := c.OpenOrders(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d open orders\n\n", name, len(orders))
	return writeOrders(a.out, orders)
}

// watchOrders folds repeated fetches into per-order histories and
// reports orders whose remaining volume moved.
func watchOrders(ctx context.Context, a *app, c *character.Character, interval time.Duration) error {
	tracker := character.NewTracker()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		orders, err := c.OpenOrders(ctx)
		if err != nil {
			return err
		}
		if err := tracker.Observe(orders); err != nil {
			return err
		}

		for _, id := range tracker.OrderIDs() {
			v, _ := tracker.Order(id)
			snaps := v.Snapshots()
			if len(snaps) < 2 {
				continue
			}
			prev, last := snaps[len(snaps)-2], snaps[len(snaps)-1]
			before, _ := prev.Get("volume_remain")
			after, _ := last.Get("volume_remain")
			if fmt.Sprint(before) != fmt.Sprint(after) {
				fmt.Fprintf(a.out, "%s order %d: volume_remain %v -> %v\n",
					last.T().Format(time.DateTime), id, before, after)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func runWallet(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("wallet", a.out)
	journal := fs.Bool("journal", false, "show the wallet journal")
	transactions := fs.Bool("transactions", false, "show market transactions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.character()
	if err != nil {
		return err
	}
	wallet := c.Wallet()

	balance, err := wallet.Balance(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "balance: %s ISK\n", balance.StringFixed(2))

	if *journal {
		entries, err := wallet.Journal(ctx)
		if err != nil {
			return err
		}
		if err := writeJournal(a.out, entries); err != nil {
			return err
		}
	}

	if *transactions {
		txs, err := wallet.Transactions(ctx)
		if err != nil {
			return err
		}
		if err := writeTransactions(a.out, txs); err != nil {
			return err
		}
	}
	return nil
}

func writeJournal(w io.Writer, entries []model.JournalEntry) error {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Date.Format(time.DateTime), e.RefType, e.Amount.StringFixed(2), e.Balance.StringFixed(2), e.Description)
	}
	return tw.Flush()
}

func writeTransactions(w io.Writer, txs []model.Transaction) error {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tSIDE\tQTY\tUNIT\tTOTAL")
	for _, tx := range txs {
		side := "sell"
		if tx.IsBuy {
			side = "buy"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\n",
			tx.Date.Format(time.DateTime), tx.TypeID, side, tx.Quantity, tx.UnitPrice.StringFixed(2), tx.Total().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := model.Summarize(txs)
	_, err := fmt.Fprintf(w, "\n%d transactions: bought %s, sold %s, net %s ISK\n",
		s.Count, s.Bought.StringFixed(2), s.Sold.StringFixed(2), s.Net().StringFixed(2))
	return err
}

func runMarketlog(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("marketlog", a.out)
	dir := fs.String("dir", a.cfg.ClientData.MarketLogDir(), "market log directory")
	file := fs.String("file", "", "log file name (default: most recent)")
	list := fs.Bool("list", false, "list available logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		entries, err := marketlog.List(*dir)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODIFIED\tSUBJECT\tFILE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ModTime.Format(time.DateTime), e.Name.Subject, e.Path)
		}
		return tw.Flush()
	}

	var (
		log *marketlog.Log
		err error
	)
	if *file != "" {
		log, err = marketlog.OpenName(*dir, *file)
	} else {
		log, err = marketlog.Latest(*dir)
	}
	if errors.Is(err, marketlog.ErrNoLogs) {
		return fmt.Errorf("%w in %s", err, *dir)
	}
	if err != nil {
		return err
	}

	a.logger.Info("market log imported", "path", log.Path, "orders", len(log.Orders))
	fmt.Fprintf(a.out, "%s: %d orders\n\n", log.Path, len(log.Orders))
	return writeOrders(a.out, log.Orders)
}
