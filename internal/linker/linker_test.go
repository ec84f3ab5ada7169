package linker

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/dlisgraph/internal/diag"
	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/internal/objectset"
	"github.com/leapstack-labs/dlisgraph/internal/registry"
	"github.com/leapstack-labs/dlisgraph/internal/testutil"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
	"github.com/leapstack-labs/dlisgraph/pkg/linkage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSet(t *testing.T, records []core.Record) *objectset.Set {
	t.Helper()
	reg := registry.NewDefault()
	set := objectset.New()
	for _, rec := range records {
		set.Insert(reg.Resolve(rec.Type).Build(rec, nil))
	}
	return set
}

func find(t *testing.T, set *objectset.Set, recordType, name string) *object.Object {
	t.Helper()
	o, err := set.Find(recordType, name)
	require.NoError(t, err)
	return o
}

func TestLink_Fixture(t *testing.T) {
	set := buildSet(t, testutil.Fixture())
	c := diag.NewCollector(testutil.NewTestLogger(t))

	res, err := New(testutil.NewTestLogger(t)).Link(set, c)
	require.NoError(t, err)

	assert.Equal(t, set.Len(), res.Stats.Objects)
	assert.Equal(t, 1, res.Stats.Mismatched)
	assert.Equal(t, 6, res.Stats.Dangling)
	assert.Len(t, c.ByCode(diag.CodeObjectRef), 1)
	assert.Len(t, c.ByCode(diag.CodeLinkedObject), 6)

	for _, o := range set.All() {
		assert.True(t, o.Linked(), o.Fingerprint().String())
	}

	chann1 := find(t, set, "CHANNEL", "CHANN1")
	tool1 := find(t, set, "TOOL", "TOOL1")
	assert.Same(t, tool1, chann1.Value("SOURCE"))

	axes, ok := chann1.Value("AXIS").([]any)
	require.True(t, ok)
	require.Len(t, axes, 3)
	// AXIS is reversed before linking.
	assert.Equal(t, "AXIS3", axes[0].(*object.Object).Name())
	assert.Equal(t, "AXIS1", axes[2].(*object.Object).Name())

	refs := res.Graph.Referrers(tool1.Fingerprint())
	var labels []string
	for _, e := range refs {
		labels = append(labels, e.From.Name+"."+e.Label)
	}
	assert.ElementsMatch(t, []string{"CHANN1.SOURCE", "MEAS1.MEASUREMENT-SOURCE", "GROUP3.OBJECT-LIST"}, labels)
}

func TestLink_DanglingVectorElement(t *testing.T) {
	set := buildSet(t, testutil.Fixture())
	c := diag.NewCollector(nil)
	_, err := New(nil).Link(set, c)
	require.NoError(t, err)

	tool1 := find(t, set, "TOOL", "TOOL1")
	params, ok := tool1.Value("PARAMETERS").([]any)
	require.True(t, ok)
	require.Len(t, params, 3)
	assert.Equal(t, "PARAM1", params[0].(*object.Object).Name())
	assert.Nil(t, params[1], "PARAMX does not exist")
	assert.Equal(t, "PARAM2", params[2].(*object.Object).Name())

	// The rest of the object is untouched.
	assert.Equal(t, "description of tool 1", tool1.Value("DESCRIPTION"))

	var found bool
	for _, d := range c.ByCode(diag.CodeLinkedObject) {
		if d.Fingerprint == tool1.Fingerprint() && d.Label == "PARAMETERS" {
			found = true
			assert.Contains(t, d.Message, MsgMissing)
		}
	}
	assert.True(t, found)
}

func TestLink_ShapeMismatch(t *testing.T) {
	set := buildSet(t, testutil.Fixture())
	c := diag.NewCollector(nil)
	_, err := New(nil).Link(set, c)
	require.NoError(t, err)

	chann2 := find(t, set, "CHANNEL", "CHANN2")
	// SOURCE expects a typed object reference but holds a name.
	assert.Nil(t, chann2.Value("SOURCE"))
	// LONG-NAME holds a literal and keeps it.
	assert.Equal(t, "Channel 2", chann2.Value("LONG-NAME"))

	warnings := c.ByCode(diag.CodeObjectRef)
	require.Len(t, warnings, 1)
	assert.Equal(t, MsgShape, warnings[0].Message)
	assert.Equal(t, "SOURCE", warnings[0].Label)
	assert.Equal(t, chann2.Fingerprint(), warnings[0].Fingerprint)
}

func TestLink_Deterministic(t *testing.T) {
	set := buildSet(t, testutil.Fixture())
	l := New(nil)

	first, err := l.Link(set, nil)
	require.NoError(t, err)
	snapshot := make(map[core.Fingerprint]map[string]any)
	for _, o := range set.All() {
		snapshot[o.Fingerprint()] = o.Links()
	}

	second, err := l.Link(set, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Graph.Edges(), second.Graph.Edges())
	for _, o := range set.All() {
		assert.Equal(t, snapshot[o.Fingerprint()], o.Links(), o.Fingerprint().String())
	}
}

func TestLink_MalformedAborts(t *testing.T) {
	records := testutil.Fixture()
	records = append(records, testutil.Rec("FRAME", "BROKEN", map[string]core.RawAttribute{
		"CHANNELS": testutil.Attr(testutil.Obname("CHANN1"), core.MalformedRef{Raw: "\x01", Reason: "truncated obname"}),
	}))
	set := buildSet(t, records)

	// A successful pass first, so there are links to preserve.
	l := New(nil)
	before := diag.NewCollector(nil)
	broken := find(t, set, "FRAME", "BROKEN")
	chann1 := find(t, set, "CHANNEL", "CHANN1")
	broken.MaskLinkage("CHANNELS")
	broken.Reproject(nil)
	_, err := l.Link(set, before)
	require.NoError(t, err)
	linksBefore := chann1.Links()

	broken.RevertOverrides()
	broken.Reproject(nil)
	c := diag.NewCollector(nil)
	_, err = l.Link(set, c)
	require.Error(t, err)

	var se *core.StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "link", se.Op)
	assert.Equal(t, broken.Fingerprint(), se.Fingerprint)
	assert.Equal(t, "CHANNELS", se.Label)
	assert.ErrorIs(t, err, core.ErrMalformedReference)

	assert.Equal(t, 0, c.Len(), "aborted pass reports nothing")
	assert.Equal(t, linksBefore, chann1.Links(), "aborted pass modifies nothing")
	assert.False(t, broken.Linked())
}

func TestLink_ResolvesAgainstSchemaType(t *testing.T) {
	set := buildSet(t, []core.Record{
		testutil.Rec("PARAMETER", "X", nil),
		testutil.Rec("CHANNEL", "X", nil),
		testutil.Rec("FRAME", "F", map[string]core.RawAttribute{
			"CHANNELS": testutil.Attr(testutil.Obname("X")),
		}),
	})
	_, err := New(nil).Link(set, nil)
	require.NoError(t, err)

	frame := find(t, set, "FRAME", "F")
	chans := frame.Value("CHANNELS").([]any)
	require.Len(t, chans, 1)
	assert.Equal(t, "CHANNEL", chans[0].(*object.Object).Type())
}

func TestLink_ResolvesIntoUnknownPartition(t *testing.T) {
	reg := registry.NewDefault()
	reg.Unbind("CHANNEL")
	set := objectset.New()
	for _, rec := range []core.Record{
		testutil.Rec("CHANNEL", "C", nil),
		testutil.Rec("FRAME", "F", map[string]core.RawAttribute{
			"CHANNELS": testutil.Attr(testutil.Obname("C")),
		}),
	} {
		set.Insert(reg.Resolve(rec.Type).Build(rec, nil))
	}

	_, err := New(nil).Link(set, nil)
	require.NoError(t, err)
	chans := find(t, set, "FRAME", "F").Value("CHANNELS").([]any)
	require.NotNil(t, chans[0])
	assert.True(t, chans[0].(*object.Object).Variant().IsUnknown())
}

func TestLinkObject(t *testing.T) {
	set := buildSet(t, testutil.Fixture())
	chann1 := find(t, set, "CHANNEL", "CHANN1")

	chann1.SetLinkage("SOURCE", linkage.None)
	chann1.Reproject(nil)
	require.NoError(t, New(nil).LinkObject(chann1, set, nil))

	assert.True(t, chann1.Linked())
	// SOURCE is no longer a reference and keeps its raw token.
	assert.Equal(t, testutil.Objref("TOOL", "TOOL1"), chann1.Value("SOURCE"))
	assert.NotContains(t, chann1.Links(), "SOURCE")
}

func TestLink_Literals(t *testing.T) {
	set := buildSet(t, testutil.Fixture())
	_, err := New(nil).Link(set, nil)
	require.NoError(t, err)

	path1 := find(t, set, "PATH", "PATH1")
	assert.Equal(t, int64(87), path1.Value("BOREHOLE-DEPTH"))
	vd, ok := path1.Value("VERTICAL-DEPTH").(*object.Object)
	require.True(t, ok)
	assert.Equal(t, "CHANN2", vd.Name())
	assert.Nil(t, path1.Value("RADIAL-DRIFT"))
}
