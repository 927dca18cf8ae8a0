package pod

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const perlSource = `package Foo;

use strict;

=head1 NAME

Foo - does things

=cut

sub new { bless {}, shift }

=head1 METHODS

=head2 new

Constructor.

=cut

1;
`

func TestExtract_TwoRegions_ConcatenatedInSourceOrder(t *testing.T) {
	got := Extract(perlSource)

	want := "=head1 NAME\n\nFoo - does things\n\n=head1 METHODS\n\n=head2 new\n\nConstructor.\n"
	require.Equal(t, want, got)
}

func TestExtract_NoMarkup_ReturnsEmpty(t *testing.T) {
	require.Equal(t, "", Extract("package Foo;\n\nsub new {}\n\n1;\n"))
}

func TestExtract_RegionRunsToEndOfFile(t *testing.T) {
	got := Extract("package Foo;\n\n=head1 NAME\n\nFoo\n")

	require.Equal(t, "=head1 NAME\n\nFoo\n", got)
}

func TestExtract_CutOutsideRegion_DoesNotOpenOne(t *testing.T) {
	require.Equal(t, "", Extract("=cut\n\nsub new {}\n"))
}

func TestExtract_PureMarkupInput_IsStable(t *testing.T) {
	markup := Extract(perlSource)

	require.Equal(t, markup, Extract(markup))
}
