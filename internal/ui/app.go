package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/balance"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/schedule"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// TabTransition is the loading pause shown when switching tabs.
const TabTransition = 300 * time.Millisecond

// busMsg wraps messages that arrived through the UpdateSender.
type busMsg struct {
	msg tea.Msg
}

type statusLine struct {
	text     string
	link     string
	success  bool
	category operation.Category
}

// Model is the root bubbletea model: three action tabs, a balance panel and a log pane.
type Model struct {
	ctx     context.Context
	svc     Services
	keys    KeyMap
	styles  style.Styles
	logger  *zap.Logger
	updates *UpdateSender

	ready   bool
	initErr error

	tab           Tab
	loading       bool
	transition    schedule.Task
	transitionGen uint64

	airdrop *airdropTab
	launch  *launchTab
	swap    *swapTab

	busy   [tabCount]bool
	steps  [tabCount]string
	status [tabCount]statusLine

	balances    balance.Snapshot
	hasBalances bool
	balanceErr  error

	logs   *component.LogPane
	width  int
	height int
}

func NewModel(ctx context.Context, svc Services) *Model {
	if svc.Updates == nil {
		svc.Updates = NewUpdateSender(256, svc.Logger)
	}
	m := &Model{
		ctx:     ctx,
		svc:     svc,
		keys:    DefaultKeyMap(),
		styles:  style.DefaultStyles(),
		logger:  svc.Logger.Named("ui"),
		updates: svc.Updates,
		logs:    component.NewLogPane(svc.Logs),
	}

	m.airdrop = newAirdropTab()
	m.launch = newLaunchTab()
	m.swap = newSwapTab(svc.Registry, svc.DefaultSlippage)
	m.swap.debouncer = quote.NewDebouncer(svc.Quoter, svc.QuoteDelay, svc.Logger, func(q quote.Quote, ok bool) {
		m.updates.SendUpdate(QuoteMsg{Quote: q, OK: ok})
	})

	if svc.Balances != nil {
		svc.Balances.OnRefresh(func(s balance.Snapshot) {
			m.updates.SendUpdate(BalanceMsg{Snapshot: s})
		})
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.loadSigner())
}

func (m *Model) listen() tea.Cmd {
	next := m.updates.Listen()
	return func() tea.Msg {
		return busMsg{msg: next()}
	}
}

func (m *Model) loadSigner() tea.Cmd {
	return func() tea.Msg {
		signer, err := m.svc.LoadSigner(m.ctx)
		return SignerLoadedMsg{Signer: signer, Err: err}
	}
}

func (m *Model) refreshBalances(owner solana.PublicKey) tea.Cmd {
	if m.svc.Balances == nil {
		return nil
	}
	return func() tea.Msg {
		snap, err := m.svc.Balances.Now(m.ctx, owner)
		return BalanceMsg{Snapshot: snap, Err: err}
	}
}

// Close stops background work owned by the model.
func (m *Model) Close() {
	m.transition.Cancel()
	m.swap.debouncer.Close()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case busMsg:
		_, cmd := m.Update(msg.msg)
		return m, tea.Batch(cmd, m.listen())

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		formWidth := m.width/2 - 4
		m.airdrop.form.SetWidth(formWidth)
		m.launch.form.SetWidth(formWidth)
		m.swap.form.SetWidth(formWidth)
		m.logs.SetSize(m.width, 8)
		return m, nil

	case SignerLoadedMsg:
		if msg.Err != nil {
			m.initErr = msg.Err
			m.logger.Error("Wallet load failed", zap.Error(msg.Err))
			return m, nil
		}
		m.svc.Session.Connect(msg.Signer)
		m.ready = true
		m.logger.Info("Wallet connected", zap.String("wallet", msg.Signer.PublicKey().String()))
		return m, m.refreshBalances(msg.Signer.PublicKey())

	case BalanceMsg:
		if msg.Err != nil {
			m.balanceErr = msg.Err
			return m, nil
		}
		m.balances, m.hasBalances, m.balanceErr = msg.Snapshot, true, nil
		return m, nil

	case QuoteMsg:
		m.swap.setQuote(msg.Quote, msg.OK)
		return m, nil

	case OperationEventMsg:
		t := tabFor(msg.Event.Kind)
		label := msg.Event.State.String()
		if msg.Event.Step != "" && !msg.Event.State.Terminal() {
			label += " (" + msg.Event.Step + ")"
		}
		m.steps[t] = label
		return m, nil

	case OutcomeMsg:
		m.finish(msg.Outcome)
		return m, nil

	case BusyMsg:
		return m, nil

	case TabReadyMsg:
		if msg.Gen == m.transitionGen {
			m.loading = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleLogs):
		m.logs.Toggle()
		return m, nil
	}

	if !m.ready {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab((m.tab + 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab((m.tab + tabCount - 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.Airdrop):
		m.switchTab(TabAirdrop)
		return m, nil
	case key.Matches(msg, m.keys.Launch):
		m.switchTab(TabLaunch)
		return m, nil
	case key.Matches(msg, m.keys.Swap):
		m.switchTab(TabSwap)
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshBalances(m.svc.Session.Identity())
	}

	if m.loading {
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		return m, m.submit()
	}

	switch m.tab {
	case TabAirdrop:
		m.airdrop.form.Update(msg)
	case TabLaunch:
		m.launch.form.Update(msg)
	case TabSwap:
		changed, handled := m.swapKey(msg)
		if !handled {
			changed = m.swap.update(msg)
		}
		if changed {
			m.swap.requote(m.ctx)
		}
	}
	return m, nil
}

// swapKey applies the swap shortcuts. changed reports whether the input moved.
func (m *Model) swapKey(msg tea.KeyMsg) (changed, handled bool) {
	switch {
	case key.Matches(msg, m.keys.Flip):
		if !m.busy[TabSwap] {
			m.swap.flip()
			changed = true
		}
	case key.Matches(msg, m.keys.Max):
		changed = !m.busy[TabSwap] && m.swap.fillMax(m.balances, m.hasBalances)
	case key.Matches(msg, m.keys.Slippage):
		if !m.busy[TabSwap] {
			m.swap.nextSlippage()
			changed = true
		}
	default:
		return false, false
	}
	return changed, true
}

// switchTab shows a short loading state; a newer switch cancels the pending one.
func (m *Model) switchTab(t Tab) {
	if t == m.tab && !m.loading {
		return
	}
	m.tab = t
	m.loading = true
	m.transitionGen++
	gen := m.transitionGen
	m.transition.Schedule(m.ctx, TabTransition, func(context.Context) {
		m.updates.SendUpdate(TabReadyMsg{Gen: gen})
	})
}

func (m *Model) submit() tea.Cmd {
	t := m.tab
	if m.busy[t] {
		return nil
	}

	var body func(ctx context.Context) (operation.Outcome, error)
	switch t {
	case TabAirdrop:
		amount := m.airdrop.amount()
		body = func(ctx context.Context) (operation.Outcome, error) {
			return m.svc.Operations.Airdrop(ctx, m.svc.Session, amount)
		}
	case TabLaunch:
		req := m.launch.request()
		body = func(ctx context.Context) (operation.Outcome, error) {
			return m.svc.Operations.LaunchToken(ctx, m.svc.Session, req)
		}
	case TabSwap:
		req := m.swap.request()
		body = func(ctx context.Context) (operation.Outcome, error) {
			return m.svc.Operations.Swap(ctx, m.svc.Session, req)
		}
	default:
		return nil
	}

	m.setBusy(t, true)
	m.status[t] = statusLine{}
	m.steps[t] = ""
	owner := m.svc.Session.Identity()
	kind := t.kind()

	return func() tea.Msg {
		outcome, err := body(m.ctx)
		if errors.Is(err, operation.ErrBusy) {
			return BusyMsg{Kind: kind}
		}
		if m.svc.Journal != nil {
			m.svc.Journal.Record(owner, outcome)
		}
		return OutcomeMsg{Outcome: outcome}
	}
}

func (m *Model) setBusy(t Tab, busy bool) {
	m.busy[t] = busy
	switch t {
	case TabAirdrop:
		m.airdrop.form.SetDisabled(busy)
	case TabLaunch:
		m.launch.form.SetDisabled(busy)
	case TabSwap:
		m.swap.form.SetDisabled(busy)
	}
}

func (m *Model) finish(o operation.Outcome) {
	t := tabFor(o.Kind)
	m.setBusy(t, false)
	m.steps[t] = ""
	m.status[t] = statusLine{
		text:     o.Message,
		link:     o.ExplorerURL,
		success:  o.Status == operation.StatusSuccess,
		category: o.Category,
	}
	if !o.ClearInputs {
		return
	}
	switch t {
	case TabAirdrop:
		m.airdrop.form.Reset()
	case TabLaunch:
		m.launch.form.Reset()
	case TabSwap:
		m.swap.form.Reset()
		m.swap.last = m.swap.form.Values()
		m.swap.debouncer.Invalidate()
	}
}

func tabFor(k operation.Kind) Tab {
	switch k {
	case operation.KindLaunch:
		return TabLaunch
	case operation.KindSwap:
		return TabSwap
	default:
		return TabAirdrop
	}
}

func (m *Model) View() string {
	if !m.ready {
		if m.initErr != nil {
			return m.styles.Error.Render("Wallet unavailable: "+m.initErr.Error()) +
				"\n" + m.styles.Muted.Render("Press esc to quit.")
		}
		return m.styles.Placeholder.Render("Initializing...")
	}

	header := m.styles.Title.Render("Solana Devnet Launchpad") + "  " +
		m.styles.Muted.Render(shorten(m.svc.Session.Identity().String()))

	left := lipgloss.JoinVertical(lipgloss.Left, m.tabsView(), m.bodyView())
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.balanceView())

	parts := []string{header, main}
	if m.logs.IsVisible() {
		parts = append(parts, m.logs.View())
	}
	parts = append(parts, m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) tabsView() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		st := m.styles.Tab
		if t == m.tab {
			st = m.styles.ActiveTab
		}
		label := t.String()
		if m.busy[t] {
			label += " …"
		}
		tabs = append(tabs, st.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) bodyView() string {
	if m.loading {
		return m.styles.Placeholder.Render("Loading...")
	}

	var b strings.Builder
	switch m.tab {
	case TabAirdrop:
		b.WriteString(m.airdrop.view(m.styles))
	case TabLaunch:
		b.WriteString(m.launch.view(m.styles))
	case TabSwap:
		b.WriteString(m.swap.view(m.styles, m.balances, m.hasBalances))
	}

	b.WriteString("\n")
	b.WriteString(m.actionView())

	if st := m.status[m.tab]; st.text != "" {
		b.WriteString("\n\n")
		if st.success {
			b.WriteString(m.styles.Success.Render(st.text))
		} else {
			b.WriteString(m.styles.Error.Render(st.text))
		}
		if st.link != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Link.Render(st.link))
		}
	}
	return b.String()
}

func (m *Model) actionView() string {
	if m.busy[m.tab] {
		label := "Working"
		if step := m.steps[m.tab]; step != "" {
			label += ": " + step
		}
		return m.styles.ButtonIdle.Render(label + "...")
	}
	return m.styles.Button.Render(actionLabel(m.tab) + " [ctrl+s]")
}

func actionLabel(t Tab) string {
	switch t {
	case TabLaunch:
		return "Create Token"
	case TabSwap:
		return "Swap"
	default:
		return "Request Airdrop"
	}
}

func (m *Model) balanceView() string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("Balances"))
	b.WriteString("\n")

	for _, asset := range m.svc.Registry.All() {
		value := "…"
		if m.hasBalances {
			value = m.balances.Get(asset.Address).String()
		}
		b.WriteString(fmt.Sprintf("%-5s %s\n", asset.Symbol, value))
	}
	if m.hasBalances {
		b.WriteString(m.styles.Muted.Render("updated " + m.balances.FetchedAt.Format("15:04:05")))
	}
	if m.balanceErr != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render("refresh failed"))
	}
	return m.styles.Panel.Render(b.String())
}

func (m *Model) helpView() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, bnd := range bindings {
		h := bnd.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Muted.Render(strings.Join(parts, " • "))
}

func shorten(addr string) string {
	if len(addr) > 10 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}
