package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/dynamo"
)

func TestEnergyAtRest(t *testing.T) {
	law := NewSymmetricCharge(10, true)
	a := mustParticle(t, "a", "A", 2, dynamo.Vector{0, 0}, nil)
	b := mustParticle(t, "b", "B", 3, dynamo.Vector{0, 5}, nil)
	c := mustParticle(t, "c", "A", 1, dynamo.Vector{5, 0}, nil)
	ps := []*Particle{a, b, c}

	assert.Equal(t, 0.0, KineticEnergy(law, ps, 0.1))

	pe, err := PotentialEnergy(law, ps)
	require.NoError(t, err)
	// a-b attract, a-c repel, b-c attract at sqrt(50)
	want := -10.0/5 + 10.0/5 - 10.0/dynamo.Vector{5, -5}.Norm()
	assert.InDelta(t, want, pe, 1e-12)

	total, err := TotalEnergy(law, ps, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, want, total, 1e-12)
}

func TestKineticEnergyAndMomentum(t *testing.T) {
	law := NewGravitational()
	a := mustParticle(t, "a", KindGravity, 2, dynamo.Vector{0, 0, 0}, dynamo.Vector{1, 0, 0})
	b := mustParticle(t, "b", KindGravity, 1, dynamo.Vector{1, 0, 0}, dynamo.Vector{-2, 0, 0})
	ps := []*Particle{a, b}

	assert.InDelta(t, 0.5*2*1+0.5*1*4, KineticEnergy(law, ps, 0.1), 1e-12)
	assert.Equal(t, dynamo.Vector{0, 0, 0}, Momentum(law, ps, 0.1))

	com := CenterOfMass(law, ps)
	assert.True(t, com.Equal(dynamo.Vector{1.0 / 3, 0, 0}, 1e-12))
}

func TestInertiaIgnoresMassWhenUnscaled(t *testing.T) {
	p := mustParticle(t, "p", "A", 25, dynamo.Vector{0, 0}, dynamo.Vector{2, 0})
	assert.Equal(t, 1.0, NewSymmetricCharge(1, false).Inertia(p))
	assert.Equal(t, 25.0, NewSymmetricCharge(1, true).Inertia(p))
	assert.Equal(t, 25.0, NewGravitational().Inertia(p))

	assert.Nil(t, Momentum(NewGravitational(), nil, 0.1))
	assert.Nil(t, CenterOfMass(NewGravitational(), nil))
}
