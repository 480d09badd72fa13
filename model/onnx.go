package model

import (
	"fmt"
	"math"
	"os"
	"sync"

	"reversi/game"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	planes    = 3 // own, opponent, obstacles
	inputSize = game.Cells * planes
)

// Config names the exported model and its tensors. The model takes a [1,8,8,3] NHWC
// board and returns policy logits [1,65] and a tanh value [1,1].
type Config struct {
	Path    string
	Library string // onnxruntime shared library, empty for the loader default
	Input   string
	Policy  string
	Value   string
}

// The runtime environment is process-wide and must only be set up once.
var (
	envOnce sync.Once
	envErr  error
)

func initialize(library string) error {
	envOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		if library != "" {
			ort.SetSharedLibraryPath(library)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			envErr = fmt.Errorf("initialize onnxruntime: %w", err)
		}
	})
	return envErr
}

// Evaluator runs the model on one position at a time. The session is bound to fixed
// tensors, so calls are serialised.
type Evaluator struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	policy  *ort.Tensor[float32]
	value   *ort.Tensor[float32]
}

func NewEvaluator(config Config) (*Evaluator, error) {
	if _, err := os.Stat(config.Path); err != nil {
		return nil, fmt.Errorf("failed to find model: %w", err)
	}
	if err := initialize(config.Library); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model io: %w", err)
	}
	if !hasName(inputs, config.Input) || !hasName(outputs, config.Policy) || !hasName(outputs, config.Value) {
		return nil, fmt.Errorf("model io %v -> %v does not provide %q -> %q, %q",
			inputs, outputs, config.Input, config.Policy, config.Value)
	}

	e := &Evaluator{}
	e.input, err = ort.NewTensor(ort.NewShape(1, game.Size, game.Size, planes), make([]float32, inputSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	e.policy, err = ort.NewEmptyTensor[float32](ort.NewShape(1, game.NumActions))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create policy tensor: %w", err)
	}
	e.value, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create value tensor: %w", err)
	}

	e.session, err = ort.NewAdvancedSession(
		config.Path,
		[]string{config.Input},
		[]string{config.Policy, config.Value},
		[]ort.Value{e.input},
		[]ort.Value{e.policy, e.value},
		nil,
	)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Str("model", config.Path).Msg("onnx session created")
	return e, nil
}

func hasName(infos []ort.InputOutputInfo, name string) bool {
	for _, info := range infos {
		if info.Name == name {
			return true
		}
	}
	return false
}

func (e *Evaluator) Evaluate(position game.Position) (game.Priors, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	Encode(position, e.input.GetData())
	if err := e.session.Run(); err != nil {
		return game.Priors{}, 0, fmt.Errorf("failed to run model: %w", err)
	}
	return decode(e.policy.GetData(), e.value.GetData()[0])
}

// Close releases the session and its tensors.
func (e *Evaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[float32]{e.input, e.policy, e.value} {
		if t != nil {
			t.Destroy()
		}
	}
	e.input, e.policy, e.value = nil, nil, nil
}

// Encode writes position into dst as [row][col][plane].
func Encode(position game.Position, dst []float32) {
	if len(dst) != inputSize {
		panic(fmt.Sprintf("model: input buffer holds %d values, want %d", len(dst), inputSize))
	}
	for i := 0; i < game.Cells; i++ {
		offset := i * planes
		dst[offset] = bit(position.Own, i)
		dst[offset+1] = bit(position.Opponent, i)
		dst[offset+2] = bit(position.Obstacles, i)
	}
}

func bit(m game.Mask, i int) float32 {
	if m.Has(i) {
		return 1
	}
	return 0
}

// decode maps policy logits through a sigmoid and the tanh value onto [0, 1].
func decode(logits []float32, value float32) (game.Priors, float64, error) {
	var priors game.Priors
	if len(logits) != game.NumActions {
		return priors, 0, fmt.Errorf("policy has %d logits, want %d", len(logits), game.NumActions)
	}

	for i, logit := range logits {
		l := float64(logit)
		if math.IsNaN(l) {
			return priors, 0, fmt.Errorf("policy logit %d is NaN", i)
		}
		priors[i] = 1 / (1 + math.Exp(-l))
	}

	v := float64(value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return priors, 0, fmt.Errorf("value is %v", v)
	}
	v = math.Max(-1, math.Min(1, v))
	return priors, (v + 1) / 2, nil
}
