package pipeline

import "strings"

// Domain is a coarse classification of the paper's field, used to select
// guidance text for the design and generation prompts.
type Domain string

const (
	DomainMLTraining            Domain = "ml-training"
	DomainReinforcementLearning Domain = "reinforcement-learning"
	DomainNLP                   Domain = "nlp"
	DomainComputerVision        Domain = "computer-vision"
	DomainGraphAlgorithms       Domain = "graph-algorithms"
	DomainSimulation            Domain = "simulation"
	DomainGeneral               Domain = "general"
)

// domainKeywords is the fixed keyword table the classifier scores
// against. Order matters: ties resolve to the earlier entry.
var domainKeywords = []struct {
	domain   Domain
	keywords []string
}{
	{DomainMLTraining, []string{
		"optimization", "gradient", "loss", "training", "neural network",
		"backpropagation", "learning rate", "sgd", "convergence", "regularization",
		"overfitting", "batch",
	}},
	{DomainReinforcementLearning, []string{
		"reinforcement", "reward", "policy", "q-learning", "markov decision",
		"exploration", "agent", "environment", "bellman",
	}},
	{DomainNLP, []string{
		"language model", "tokenization", "embedding", "transformer", "attention",
		"corpus", "text classification", "sentiment", "named entity",
	}},
	{DomainComputerVision, []string{
		"image", "convolution", "segmentation", "object detection", "pixel",
		"feature map", "visual", "pooling",
	}},
	{DomainGraphAlgorithms, []string{
		"graph", "vertex", "shortest path", "adjacency", "spanning tree",
		"network flow", "traversal", "centrality",
	}},
	{DomainSimulation, []string{
		"simulation", "monte carlo", "particle", "differential equation",
		"numerical integration", "stochastic process", "time step",
	}},
}

// ClassifyDomain scores the paper text against the keyword table and
// returns the highest-scoring domain. Zero hits means general.
func ClassifyDomain(text string) Domain {
	lower := strings.ToLower(text)

	best := DomainGeneral
	bestScore := 0
	for _, entry := range domainKeywords {
		score := 0
		for _, kw := range entry.keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best = entry.domain
			bestScore = score
		}
	}
	return best
}

// domainGuidance is appended to the design and generation system prompts
// so stage output leans on the idioms of the paper's field.
var domainGuidance = map[Domain]string{
	DomainMLTraining: "The paper is about machine learning training. Prefer a tiny synthetic dataset, " +
		"a small model implemented with numpy, an explicit training loop, and a plot of the loss curve.",
	DomainReinforcementLearning: "The paper is about reinforcement learning. Prefer a tiny gridworld or " +
		"bandit environment, a tabular agent, and a plot of episode reward.",
	DomainNLP: "The paper is about natural language processing. Prefer a tiny hand-written corpus, " +
		"simple whitespace tokenization, and printed example predictions.",
	DomainComputerVision: "The paper is about computer vision. Prefer tiny synthetic images built as " +
		"numpy arrays and matplotlib visualizations of inputs and outputs.",
	DomainGraphAlgorithms: "The paper is about graph algorithms. Prefer a small hand-built graph as an " +
		"adjacency structure and print the algorithm's intermediate state per step.",
	DomainSimulation: "The paper is about simulation or numerical methods. Prefer a coarse time step, " +
		"few iterations, and a plot of the simulated trajectory.",
	DomainGeneral: "Prefer the smallest self-contained demonstration of the paper's core idea, with " +
		"printed intermediate results.",
}

// Guidance returns the prompt guidance text for the domain.
func (d Domain) Guidance() string {
	if g, ok := domainGuidance[d]; ok {
		return g
	}
	return domainGuidance[DomainGeneral]
}
