package commands

import (
	"testing"

	"github.com/oakwood-commons/keytips/pkg/keytip"
	"github.com/oakwood-commons/keytips/pkg/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run drives a full activation through a bound controller.
func run(t *testing.T, s *sheet.Sheet, cmds []keytip.Command, keys ...string) {
	t.Helper()
	c, err := keytip.NewController(cmds, keytip.WithPlatform(keytip.PlatformDefault))
	require.NoError(t, err)
	c.Bind(s)
	defer c.Unbind()
	c.HandleKeyDown(keytip.KeyEvent{Key: keytip.KeyAlt, Mods: keytip.ModAlt})
	c.HandleKeyUp(keytip.KeyEvent{Key: keytip.KeyAlt})
	require.True(t, c.Active())
	for _, k := range keys {
		c.HandleKeyDown(keytip.KeyEvent{Key: k})
		c.HandleKeyUp(keytip.KeyEvent{Key: k})
	}
	require.False(t, c.Active(), "sequence should have committed")
}

func TestSplitClipboard(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{"single", "a", [][]string{{"a"}}},
		{"crlf trailer", "a\tb\r\nc\td\r\n", [][]string{{"a", "b"}, {"c", "d"}}},
		{"lf trailer", "1\n2\n", [][]string{{"1"}, {"2"}}},
		{"empty fields", "\tx\t", [][]string{{"", "x", ""}}},
		{"inner blank line", "a\n\nb", [][]string{{"a"}, {""}, {"b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitClipboard(tt.in))
		})
	}
}

func TestPasteValues(t *testing.T) {
	capture := &Capture{}
	capture.Observe("1\tfoo\r\n\t2.5\r\n")
	s := sheet.FromRows([][]any{{"x", "x"}, {"x", "x"}}, 4, 4)
	s.SetCursor(1, 1)
	painted := 0
	s.OnPaint(func() { painted++ })

	run(t, s, Default(capture), "H", "V", "V")

	assert.Equal(t, 1.0, s.Value(1, 1))
	assert.Equal(t, "foo", s.Value(1, 2))
	assert.Nil(t, s.Value(2, 1))
	assert.Equal(t, 2.5, s.Value(2, 2))
	assert.Equal(t, "x", s.Value(0, 0))
	assert.Equal(t, 1, painted, "writes are batched into one repaint")
}

func TestPasteValuesWithoutCaptureIsNoop(t *testing.T) {
	s := sheet.FromRows([][]any{{"keep"}}, 2, 2)
	run(t, s, Default(&Capture{}), "H", "V", "V")
	assert.Equal(t, "keep", s.Value(0, 0))
}

func TestPasteValuesClipsAtEdge(t *testing.T) {
	capture := &Capture{}
	capture.Observe("1\t2\t3")
	s := sheet.New(1, 2)
	s.SetCursor(0, 1)
	run(t, s, Default(capture), "H", "V", "V")
	assert.Equal(t, 1.0, s.Value(0, 1))
}

func TestCaptureIgnoresEmpty(t *testing.T) {
	c := &Capture{}
	_, ok := c.Text()
	assert.False(t, ok)
	c.Observe("a")
	c.Observe("")
	text, ok := c.Text()
	assert.True(t, ok)
	assert.Equal(t, "a", text)
}

func TestBorderCommands(t *testing.T) {
	s := sheet.New(3, 3)
	s.Select(sheet.Range{Row: 0, Col: 0, Rows: 2, Cols: 2})
	run(t, s, Default(nil), "H", "B", "B")
	cell, _ := s.Cell(1, 0)
	assert.True(t, cell.Border.Has(sheet.BorderBottom))

	s.Select(sheet.Range{Row: 0, Col: 0, Rows: 2, Cols: 2})
	run(t, s, Default(nil), "H", "B", "T")
	cell, _ = s.Cell(0, 1)
	assert.True(t, cell.Border.Has(sheet.BorderTop))

	s.Select(sheet.Range{Row: 0, Col: 0, Rows: 2, Cols: 2})
	run(t, s, Default(nil), "H", "B", "N")
	cell, _ = s.Cell(0, 1)
	assert.Equal(t, sheet.Border(0), cell.Border)
}

func TestAutoFitCommand(t *testing.T) {
	s := sheet.FromRows([][]any{{"a fairly wide value", "b"}}, 2, 3)
	s.Select(sheet.Range{Row: 0, Col: 0, Rows: 1, Cols: 2})
	run(t, s, Default(nil), "H", "O", "I")
	assert.Equal(t, 19, s.ColumnWidth(0))
	assert.Equal(t, sheet.MinColumnWidth, s.ColumnWidth(1))
	assert.Equal(t, sheet.DefaultColumnWidth, s.ColumnWidth(2))
}

func TestSortCommands(t *testing.T) {
	s := sheet.FromRows([][]any{{3, "c"}, {1, "a"}, {2, "b"}}, 0, 0)
	s.Select(sheet.Range{Rows: 3, Cols: 2})
	run(t, s, Default(nil), "A", "S")
	assert.Equal(t, []string{"3", "2", "1"}, column(s, 0))
	assert.Equal(t, []string{"c", "b", "a"}, column(s, 1))

	s.Select(sheet.Range{Rows: 3, Cols: 2})
	run(t, s, Default(nil), "A", "A")
	assert.Equal(t, []string{"1", "2", "3"}, column(s, 0))
}

func column(s *sheet.Sheet, col int) []string {
	out := make([]string, s.Rows())
	for r := range out {
		out[r] = s.Text(r, col)
	}
	return out
}

func TestBuildRegistry(t *testing.T) {
	cmds, err := Build(&Capture{}, Options{Builtins: true, Disabled: []string{"h b t", "A,A"}})
	require.NoError(t, err)
	var seqs []string
	for _, c := range cmds {
		seqs = append(seqs, c.Sequence())
	}
	assert.Contains(t, seqs, "H V V")
	assert.NotContains(t, seqs, "H B T")
	assert.NotContains(t, seqs, "A A")

	cmds, err = Build(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestBuildRegistryExpr(t *testing.T) {
	cmds, err := Build(&Capture{}, Options{
		Builtins: true,
		Exprs: []ExprCommand{
			{Keys: "F D", Labels: []string{"Formulas", "Double"}, Expr: "value * 2.0"},
			{Keys: "F U", Description: "Upper case", Expr: "text.upperAscii()"},
		},
	})
	require.NoError(t, err)

	s := sheet.FromRows([][]any{{4, "abc"}}, 0, 0)
	s.Select(sheet.Range{Rows: 1, Cols: 1})
	run(t, s, cmds, "F", "D")
	assert.Equal(t, 8.0, s.Value(0, 0))

	s.SetValue(0, 0, 4.0)
	s.Select(sheet.Range{Rows: 1, Cols: 2})
	run(t, s, cmds, "f", "u")
	assert.Equal(t, "4", s.Value(0, 0), "numbers become their text")
	assert.Equal(t, "ABC", s.Value(0, 1))
}

func TestBuildRegistryErrors(t *testing.T) {
	_, err := Build(nil, Options{Exprs: []ExprCommand{{Keys: "Q", Expr: "nope +"}}})
	assert.ErrorIs(t, err, ErrInvalidExpr)

	_, err = Build(nil, Options{Exprs: []ExprCommand{{Keys: "Q"}}})
	assert.ErrorIs(t, err, ErrInvalidExpr)

	_, err = Build(&Capture{}, Options{Builtins: true, Exprs: []ExprCommand{{Keys: "H", Expr: "value"}}})
	assert.ErrorIs(t, err, keytip.ErrPrefixConflict)
}

func TestSheetEffectIgnoresOtherHosts(t *testing.T) {
	called := false
	SheetEffect(func(*sheet.Sheet) { called = true }).Apply(nil)
	assert.False(t, called)
}
