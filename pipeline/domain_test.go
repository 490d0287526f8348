package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDomain(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Domain
	}{
		{
			"ml training vocabulary",
			"We minimize the loss with gradient descent. The optimization converges after training.",
			DomainMLTraining,
		},
		{
			"reinforcement learning",
			"The agent maximizes cumulative reward under a learned policy via q-learning.",
			DomainReinforcementLearning,
		},
		{
			"nlp",
			"A transformer language model with attention over the corpus embedding space.",
			DomainNLP,
		},
		{
			"computer vision",
			"Each image passes through a convolution and pooling stack producing a feature map per pixel.",
			DomainComputerVision,
		},
		{
			"graph algorithms",
			"We compute the shortest path over the adjacency list of the graph by vertex traversal.",
			DomainGraphAlgorithms,
		},
		{
			"simulation",
			"A monte carlo simulation advances each particle one time step per iteration.",
			DomainSimulation,
		},
		{
			"no keyword hits",
			"An essay on the history of mathematics.",
			DomainGeneral,
		},
		{
			"empty text",
			"",
			DomainGeneral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDomain(tt.text))
		})
	}
}

func TestClassifyDomainTieResolvesToEarlierEntry(t *testing.T) {
	// One hit each for ml-training and graph-algorithms; the table order
	// decides.
	text := "gradient graph"

	assert.Equal(t, DomainMLTraining, ClassifyDomain(text))
}

func TestClassifyDomainCaseInsensitive(t *testing.T) {
	assert.Equal(t, DomainMLTraining, ClassifyDomain("GRADIENT descent on the LOSS"))
}

func TestGuidanceFallsBackToGeneral(t *testing.T) {
	assert.Equal(t, DomainGeneral.Guidance(), Domain("made-up").Guidance())
	assert.NotEmpty(t, DomainSimulation.Guidance())
}
