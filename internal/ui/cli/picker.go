package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"simpleimport/internal/core/ports"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// scriptedPicker answers choices from -choose. Once the answers run out every
// further choice is dismissed.
type scriptedPicker struct {
	answers []int
}

var _ ports.Picker = (*scriptedPicker)(nil)

func (p *scriptedPicker) Pick(_ context.Context, _ string, options []string) (int, error) {
	if len(p.answers) == 0 {
		return -1, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	if answer >= len(options) {
		return 0, fmt.Errorf("choice %d out of range (%d candidates)", answer, len(options))
	}
	return answer, nil
}

// promptPicker prints a numbered menu and reads the answer from a line of
// input. An empty line or end of input dismisses the choice.
type promptPicker struct {
	in  *bufio.Reader
	out io.Writer
}

var _ ports.Picker = (*promptPicker)(nil)

func newPromptPicker(in io.Reader, out io.Writer) *promptPicker {
	return &promptPicker{in: bufio.NewReader(in), out: out}
}

func (p *promptPicker) Pick(ctx context.Context, title string, options []string) (int, error) {
	fmt.Fprintln(p.out, title)
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}
	for {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		fmt.Fprintf(p.out, "Select 1-%d (empty to skip): ", len(options))
		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			if err != nil && err != io.EOF {
				return -1, err
			}
			return -1, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "invalid choice %q\n", answer)
		if err != nil {
			return -1, nil
		}
	}
}

// teaPicker shows the candidates in a bubbletea list on the terminal.
type teaPicker struct {
	output io.Writer
}

var _ ports.Picker = (*teaPicker)(nil)

func (p *teaPicker) Pick(ctx context.Context, title string, options []string) (int, error) {
	m := newPickerModel(title, options)
	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(p.output), tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return -1, err
	}
	return final.(pickerModel).chosen, nil
}

type candidateItem struct {
	path  string
	index int
}

func (i candidateItem) Title() string       { return i.path }
func (i candidateItem) Description() string { return fmt.Sprintf("candidate %d", i.index+1) }
func (i candidateItem) FilterValue() string { return i.path }

type pickerModel struct {
	title  string
	list   list.Model
	chosen int
}

func newPickerModel(title string, options []string) pickerModel {
	items := make([]list.Item, 0, len(options))
	for i, option := range options {
		items = append(items, candidateItem{path: option, index: i})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Candidates"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return pickerModel{title: title, list: l, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.chosen = -1
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(candidateItem); ok {
				m.chosen = item.index
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-3)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("%d candidates | enter to import, esc to skip", len(m.list.Items())))
	header := fmt.Sprintf("%s\n%s\n", titleStyle(m.title), status)
	return docStyle.Render(header + "\n" + m.list.View())
}
