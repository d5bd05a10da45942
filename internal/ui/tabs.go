package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/balance"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

type airdropTab struct {
	form *component.Form
}

func newAirdropTab() *airdropTab {
	f := component.NewForm().
		AddField("amount", component.FieldTypeNumber, "Amount (SOL)", true, "1")
	return &airdropTab{form: f}
}

func (t *airdropTab) amount() string {
	return t.form.GetValue("amount")
}

func (t *airdropTab) view(s style.Styles) string {
	return s.Muted.Render("Request Devnet SOL from the faucet.") + "\n\n" + t.form.View()
}

type launchTab struct {
	form *component.Form
}

func newLaunchTab() *launchTab {
	f := component.NewForm().
		AddField("name", component.FieldTypeText, "Token Name", true, "My Token").
		AddField("symbol", component.FieldTypeText, "Symbol", true, "MTK").
		AddField("uri", component.FieldTypeText, "Metadata URI", false, builder.DefaultURI).
		AddField("supply", component.FieldTypeNumber, "Initial Supply", false, strconv.FormatUint(builder.DefaultSupply, 10))
	f.SetCharLimit("name", 32).SetCharLimit("symbol", builder.SymbolWidth)
	return &launchTab{form: f}
}

func (t *launchTab) request() builder.LaunchRequest {
	return builder.LaunchRequest{
		Name:   t.form.GetValue("name"),
		Symbol: t.form.GetValue("symbol"),
		URI:    t.form.GetValue("uri"),
		Supply: t.form.GetValue("supply"),
	}
}

func (t *launchTab) view(s style.Styles) string {
	return s.Muted.Render("Create a Token-2022 mint with on-chain metadata.") + "\n\n" + t.form.View()
}

type swapTab struct {
	form            *component.Form
	registry        *token.Registry
	debouncer       *quote.Debouncer
	defaultSlippage float64
	last            map[string]string
	quote           *quote.Quote
}

func newSwapTab(registry *token.Registry, defaultSlippage float64) *swapTab {
	symbols := make([]string, 0, len(registry.All()))
	for _, a := range registry.All() {
		symbols = append(symbols, a.Symbol)
	}

	slippage := strconv.FormatFloat(defaultSlippage, 'f', -1, 64)
	f := component.NewForm().
		AddField("from", component.FieldTypeSelect, "From", true, "").
		AddField("to", component.FieldTypeSelect, "To", true, "").
		AddField("amount", component.FieldTypeNumber, "Amount", true, "0.0").
		AddField("slippage", component.FieldTypeNumber, "Slippage %", false, slippage)
	f.SetFieldOptions("from", symbols).SetFieldOptions("to", symbols)
	if len(symbols) > 1 {
		f.SetFieldValue("to", symbols[1])
	}

	t := &swapTab{form: f, registry: registry, defaultSlippage: defaultSlippage}
	t.last = f.Values()
	return t
}

// update forwards msg to the form and reports whether any value changed.
func (t *swapTab) update(msg tea.Msg) bool {
	t.form.Update(msg)
	values := t.form.Values()
	changed := false
	for k, v := range values {
		if t.last[k] != v {
			changed = true
		}
	}
	t.last = values
	return changed
}

func (t *swapTab) input() quote.Input {
	from, _ := t.registry.BySymbol(t.form.GetValue("from"))
	to, _ := t.registry.BySymbol(t.form.GetValue("to"))
	return quote.Input{
		From:        from,
		To:          to,
		Amount:      strings.TrimSpace(t.form.GetValue("amount")),
		SlippageBps: t.slippageBps(),
	}
}

func (t *swapTab) slippageBps() uint16 {
	pct := t.defaultSlippage
	if text := strings.TrimSpace(t.form.GetValue("slippage")); text != "" {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			pct = v
		}
	}
	bps, err := quote.SlippageBps(pct)
	if err != nil {
		bps, _ = quote.SlippageBps(t.defaultSlippage)
	}
	return bps
}

// requote clears the shown quote now and schedules a new one after the quiet period.
func (t *swapTab) requote(ctx context.Context) {
	t.quote = nil
	t.debouncer.Update(ctx, t.input())
}

// setQuote shows q only if it was computed for what the form holds now.
func (t *swapTab) setQuote(q quote.Quote, ok bool) {
	if !ok {
		t.quote = nil
		return
	}
	if !t.input().Matches(q) {
		return
	}
	t.quote = &q
}

// slippagePresets are the quick choices cycled by the slippage key.
var slippagePresets = []string{"0.1", "0.5", "1.0"}

// flip exchanges the two assets. The received amount of the shown quote becomes
// the new amount to sell.
func (t *swapTab) flip() {
	in := t.input()
	from, to := t.form.GetValue("from"), t.form.GetValue("to")
	if t.quote != nil {
		t.form.SetFieldValue("amount", token.FromMinorUnits(t.quote.OutAmount, in.To.Decimals).String())
	}
	t.form.SetFieldValue("from", to).SetFieldValue("to", from)
	t.last = t.form.Values()
}

// fillMax puts the whole known balance of the sold asset into the amount field.
func (t *swapTab) fillMax(balances balance.Snapshot, hasBalances bool) bool {
	if !hasBalances {
		return false
	}
	held := balances.Get(t.input().From.Address)
	if !held.IsKnown() {
		return false
	}
	t.form.SetFieldValue("amount", held.Value().String())
	t.last = t.form.Values()
	return true
}

// nextSlippage moves to the preset after the current one.
func (t *swapTab) nextSlippage() {
	current := strings.TrimSpace(t.form.GetValue("slippage"))
	next := slippagePresets[0]
	for i, p := range slippagePresets {
		if p == current {
			next = slippagePresets[(i+1)%len(slippagePresets)]
		}
	}
	t.form.SetFieldValue("slippage", next)
	t.last = t.form.Values()
}

func (t *swapTab) request() operation.SwapRequest {
	in := t.input()
	req := operation.SwapRequest{From: in.From, To: in.To, Amount: in.Amount}
	if q, ok := t.debouncer.Current(); ok {
		req.Quote = &q
	}
	return req
}

func (t *swapTab) view(s style.Styles, balances balance.Snapshot, hasBalances bool) string {
	var b strings.Builder
	b.WriteString(s.Muted.Render("Swap through the aggregator, or a demo transfer when it is unavailable."))
	b.WriteString("\n\n")
	b.WriteString(t.form.View())

	in := t.input()
	if hasBalances && !in.From.Address.IsZero() {
		b.WriteString(s.Label.Render(fmt.Sprintf("Available: %s %s", balances.Get(in.From.Address).String(), in.From.Symbol)))
		b.WriteString("\n")
	}
	if t.form.Focused() == "amount" {
		b.WriteString(s.Muted.Render("ctrl+t max • ctrl+x flip • ctrl+g slippage preset"))
		b.WriteString("\n")
	}

	switch {
	case t.quote != nil:
		q := t.quote
		source := "Jupiter"
		if !q.IsRemote() {
			source = "estimated"
		}
		b.WriteString(s.Success.Render(fmt.Sprintf("You receive ≈ %s %s",
			token.Format(q.OutAmount, in.To.Decimals, 6), in.To.Symbol)))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(fmt.Sprintf("min %s • slippage %.2f%% • impact %.2f%% • %s",
			token.Format(q.MinOutAmount, in.To.Decimals, 6),
			float64(q.SlippageBps)/100, q.PriceImpactPct, source)))
		b.WriteString("\n")
	case quotable(in.Amount):
		b.WriteString(s.Muted.Render("Fetching quote..."))
		b.WriteString("\n")
	}
	return b.String()
}

func quotable(amount string) bool {
	_, err := token.ParseAmount(amount)
	return err == nil
}
