package eventtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyFor(t *testing.T) {
	t.Run("every listed type has a policy", func(t *testing.T) {
		for _, typ := range All() {
			_, ok := PolicyFor(typ)
			assert.True(t, ok, "missing policy for %s", typ)
		}
	})

	t.Run("unknown type has no policy", func(t *testing.T) {
		_, ok := PolicyFor(Type("NAP"))
		assert.False(t, ok)
	})

	t.Run("point types never participate in conflicts", func(t *testing.T) {
		for _, typ := range All() {
			p, _ := PolicyFor(typ)
			if p.Shape == Point {
				assert.False(t, p.Exclusive, "%s is a point type and must not be exclusive", typ)
			}
		}
	})

	t.Run("sleep is the only clipped type", func(t *testing.T) {
		for _, typ := range All() {
			p, _ := PolicyFor(typ)
			if typ == Sleep {
				assert.Equal(t, Clipped, p.DayAttribution)
			} else {
				assert.Equal(t, StartAnchored, p.DayAttribution, "type %s", typ)
			}
		}
	})
}

func TestExclusiveTypes(t *testing.T) {
	exclusive := ExclusiveTypes()
	assert.ElementsMatch(t, []Type{Sleep, Breastfeed, Bottle, Pump, HeadLift}, exclusive)
}
