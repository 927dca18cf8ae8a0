package pod

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_HeadingLevelsAndParagraphs(t *testing.T) {
	doc := Parse("=head1 NAME\n\nFoo - does\nthings\n\n=head2 Details\n")

	require.Len(t, doc.Nodes, 3)
	require.Equal(t, Heading{Level: 1, Text: "NAME"}, doc.Nodes[0])
	require.Equal(t, Paragraph{Text: "Foo - does things"}, doc.Nodes[1])
	require.Equal(t, Heading{Level: 2, Text: "Details"}, doc.Nodes[2])
}

func TestParse_VerbatimKeepsIndentation(t *testing.T) {
	doc := Parse("=head1 SYNOPSIS\n\n    use Foo;\n    my $f = Foo->new;\n")

	require.Len(t, doc.Nodes, 2)
	v, ok := doc.Nodes[1].(Verbatim)
	require.True(t, ok)
	require.Equal(t, []string{"    use Foo;", "    my $f = Foo->new;"}, v.Lines)
}

func TestParse_BulletList(t *testing.T) {
	doc := Parse("=over 4\n\n=item * one\n\n=item * two\n\nmore about two\n\n=back\n")

	require.Len(t, doc.Nodes, 1)
	l, ok := doc.Nodes[0].(List)
	require.True(t, ok)
	require.Len(t, l.Items, 2)
	require.True(t, l.Items[0].IsBullet())
	require.Equal(t, []Node{Paragraph{Text: "one"}}, l.Items[0].Nodes)
	require.Equal(t, []Node{Paragraph{Text: "two"}, Paragraph{Text: "more about two"}}, l.Items[1].Nodes)
}

func TestParse_NestedList(t *testing.T) {
	doc := Parse("=over\n\n=item outer\n\n=over\n\n=item * inner\n\n=back\n\n=back\n")

	outer, ok := doc.Nodes[0].(List)
	require.True(t, ok)
	require.Len(t, outer.Items, 1)
	require.Equal(t, "outer", outer.Items[0].Marker)

	inner, ok := outer.Items[0].Nodes[0].(List)
	require.True(t, ok)
	require.Len(t, inner.Items, 1)
	require.True(t, inner.Items[0].IsBullet())
}

func TestParse_DefinitionItemMarker(t *testing.T) {
	doc := Parse("=over\n\n=item timeout\n\nSeconds to wait.\n\n=back\n")

	l := doc.Nodes[0].(List)
	require.False(t, l.Items[0].IsBullet())
	require.Zero(t, l.Items[0].Ordinal())
	require.Equal(t, "timeout", l.Items[0].Marker)
}

func TestParse_OrderedItemMarker(t *testing.T) {
	doc := Parse("=over\n\n=item 1.\n\nfirst\n\n=item 2.\n\nsecond\n\n=back\n")

	l := doc.Nodes[0].(List)
	require.Equal(t, 1, l.Items[0].Ordinal())
	require.Equal(t, 2, l.Items[1].Ordinal())
}

func TestParse_EncodingCaptured_NotRendered(t *testing.T) {
	doc := Parse("=encoding utf8\n\n=head1 NAME\n")

	require.Equal(t, "utf8", doc.Encoding)
	require.Equal(t, []Node{Heading{Level: 1, Text: "NAME"}}, doc.Nodes)
}

func TestParse_BeginEndRegion_CapturedRaw(t *testing.T) {
	doc := Parse("=begin html\n\n<p>raw</p>\n\n=end html\n\n=head1 AFTER\n")

	require.Len(t, doc.Nodes, 2)
	r, ok := doc.Nodes[0].(Region)
	require.True(t, ok)
	require.Equal(t, "html", r.Format)
	require.Equal(t, []string{"<p>raw</p>"}, r.Lines)
}

func TestParse_ForRegion_SingleParagraph(t *testing.T) {
	doc := Parse("=for markdown *raw emphasis*\n")

	require.Equal(t, []Node{Region{Format: "markdown", Lines: []string{"*raw emphasis*"}}}, doc.Nodes)
}

func TestParse_UnknownCommand_Dropped(t *testing.T) {
	doc := Parse("=head9 NOPE\n\n=weird stuff\n\ntext\n")

	require.Equal(t, []Node{Paragraph{Text: "text"}}, doc.Nodes)
}

func TestDeclaredEncoding_AbsentIsEmpty(t *testing.T) {
	require.Equal(t, "", DeclaredEncoding("=head1 NAME\n"))
	require.Equal(t, "latin1", DeclaredEncoding("=encoding latin1\n\n=head1 NAME\n"))
}
