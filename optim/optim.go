package optim

import (
	"fmt"
	"math"

	"parbench/nn"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	Step(params []*nn.Parameter) error
	Name() string
}

// ZeroGrad clears the accumulated gradients of all parameters.
func ZeroGrad(params []*nn.Parameter) {
	for _, p := range params {
		p.Grad.Zero()
	}
}

// New constructs an optimizer by name with its default hyperparameters.
func New(name string, lr float64) (Optimizer, error) {
	switch name {
	case "sgd":
		return NewSGD(lr, 0.9), nil
	case "adam":
		return NewAdam(lr), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", name)
	}
}

// SGD is stochastic gradient descent with momentum:
//
//	v = momentum*v + grad
//	param = param - lr*v
type SGD struct {
	LR       float64
	Momentum float64

	velocities map[*nn.Parameter][]float64
}

func NewSGD(lr, momentum float64) *SGD {
	return &SGD{
		LR:         lr,
		Momentum:   momentum,
		velocities: make(map[*nn.Parameter][]float64),
	}
}

func (s *SGD) Step(params []*nn.Parameter) error {
	for _, p := range params {
		if len(p.Grad.Data) != len(p.Value.Data) {
			return fmt.Errorf("sgd: grad/value size mismatch for %s", p.Name)
		}
		if s.Momentum == 0 {
			for i := range p.Value.Data {
				p.Value.Data[i] -= s.LR * p.Grad.Data[i]
			}
			continue
		}
		v, ok := s.velocities[p]
		if !ok {
			v = make([]float64, len(p.Value.Data))
			s.velocities[p] = v
		}
		for i := range p.Value.Data {
			v[i] = s.Momentum*v[i] + p.Grad.Data[i]
			p.Value.Data[i] -= s.LR * v[i]
		}
	}
	return nil
}

func (s *SGD) Name() string { return "sgd" }

// Adam keeps per-parameter first and second moment estimates with bias
// correction:
//
//	m = beta1*m + (1-beta1)*grad
//	v = beta2*v + (1-beta2)*grad²
//	param = param - lr * m̂ / (sqrt(v̂) + eps)
type Adam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	step int
	m    map[*nn.Parameter][]float64
	v    map[*nn.Parameter][]float64
}

func NewAdam(lr float64) *Adam {
	return &Adam{
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
		m:     make(map[*nn.Parameter][]float64),
		v:     make(map[*nn.Parameter][]float64),
	}
}

func (a *Adam) Step(params []*nn.Parameter) error {
	a.step++
	bc1 := 1 - math.Pow(a.Beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.Beta2, float64(a.step))
	for _, p := range params {
		if len(p.Grad.Data) != len(p.Value.Data) {
			return fmt.Errorf("adam: grad/value size mismatch for %s", p.Name)
		}
		m, ok := a.m[p]
		if !ok {
			m = make([]float64, len(p.Value.Data))
			a.m[p] = m
		}
		v, ok := a.v[p]
		if !ok {
			v = make([]float64, len(p.Value.Data))
			a.v[p] = v
		}
		for i := range p.Value.Data {
			g := p.Grad.Data[i]
			m[i] = a.Beta1*m[i] + (1-a.Beta1)*g
			v[i] = a.Beta2*v[i] + (1-a.Beta2)*g*g
			mHat := m[i] / bc1
			vHat := v[i] / bc2
			p.Value.Data[i] -= a.LR * mHat / (math.Sqrt(vHat) + a.Eps)
		}
	}
	return nil
}

func (a *Adam) Name() string { return "adam" }
