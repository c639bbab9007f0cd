//go:build property
// +build property

// Property-based tests for the classifier: determinism, the single-variant
// invariant, and buffer hygiene across the foreign boundary.
package classify_test

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/mycitadel/citadelkit/pkg/classify"
	"github.com/mycitadel/citadelkit/pkg/ffi"
	"github.com/mycitadel/citadelkit/pkg/ffi/embedded"
	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/status"
)

func propClassifier(t *testing.T) (*classify.Classifier, *embedded.Core) {
	t.Helper()
	core, err := embedded.New("mainnet")
	require.NoError(t, err)
	cc, err := ffi.NewCallContext(context.Background(), core, nil)
	require.NoError(t, err)
	c, err := classify.New(cc)
	require.NoError(t, err)
	return c, core
}

// TestClassifyDeterminism verifies that classifying the same input twice
// yields byte-identical canonical results.
func TestClassifyDeterminism(t *testing.T) {
	c, _ := propClassifier(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("classification is deterministic", prop.ForAll(
		func(input string) bool {
			a := c.Classify(ctx, input)
			b := c.Classify(ctx, input)
			fpA, errA := a.Fingerprint()
			fpB, errB := b.Fingerprint()
			if errA != nil || errB != nil {
				return false
			}
			return fpA == fpB
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestClassifySingleVariant verifies that every classification resolves to
// exactly one variant, with Unknown reserved for non-ok statuses and the
// soft unrecognized-tag case.
func TestClassifySingleVariant(t *testing.T) {
	c, _ := propClassifier(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly one populated variant", prop.ForAll(
		func(input string) bool {
			res := c.Classify(ctx, input)
			if res.Data == nil {
				return false
			}
			if res.Status != status.Ok && res.Data.Kind() != model.KindUnknown {
				return false
			}
			return res.Data.Kind() != ""
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestClassifyBufferHygiene verifies that no classification path leaks a
// runtime buffer or frees one twice: the embedded core counts every
// allocation and every release.
func TestClassifyBufferHygiene(t *testing.T) {
	c, core := propClassifier(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("allocated == released after every classification", prop.ForAll(
		func(input string) bool {
			c.Classify(ctx, input)
			allocated, released := core.Stats()
			return allocated == released
		},
		gen.OneGenOf(
			gen.AnyString(),
			gen.RegexMatch(`[0-9a-f]{2,64}`),
			gen.Const("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"),
		),
	))

	properties.TestingRun(t)
}
