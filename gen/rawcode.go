package gen

// RawCode is precompiled code: the recorded pre- and post-traversal chunks of
// some generator, plus the net indent change its pre hook produced.
//
// Capturing a generator once lets a backend adapter splice its rendering into
// later traversals without re-walking the source node. The recorded indent is
// a diff, not an absolute level: on replay each chunk's stored indent is
// offset by the ambient depth, and the recorded net change is applied to the
// shared state on PreTraverse and reverted on PostTraverse. Replaying at
// ambient depth zero therefore reproduces the original generator's output
// byte for byte.
type RawCode struct {
	preTraverse  []Chunk
	postTraverse []Chunk

	// Net indent change between the end of PreTraverse and the start of
	// PostTraverse, as recorded at capture time.
	indentIncrement int
}

// RawCodeFromString wraps a literal line of code as a leaf RawCode with no
// indent effect.
func RawCodeFromString(code string) *RawCode {
	return &RawCode{
		preTraverse: []Chunk{{Code: code, Newlines: 1}},
	}
}

// Capture pre-renders a generator at indent depth zero and records its
// chunks and net indent change for later replay.
func Capture(generator Generator) (*RawCode, error) {
	state := NewState()
	preTraverse, err := generator.PreTraverse(state)
	if err != nil {
		return nil, err
	}
	afterPre := state.Indent()
	postTraverse, err := generator.PostTraverse(state)
	if err != nil {
		return nil, err
	}
	return &RawCode{
		preTraverse:     preTraverse,
		postTraverse:    postTraverse,
		indentIncrement: afterPre - state.Indent(),
	}, nil
}

func (r *RawCode) PreTraverse(state *State) ([]Chunk, error) {
	chunks := replayAt(r.preTraverse, state.Indent())
	state.IncrementIndent(r.indentIncrement)
	return chunks, nil
}

func (r *RawCode) PostTraverse(state *State) ([]Chunk, error) {
	state.IncrementIndent(-r.indentIncrement)
	return replayAt(r.postTraverse, state.Indent()), nil
}

// replayAt offsets recorded chunk indents by the ambient depth.
func replayAt(recorded []Chunk, ambient int) []Chunk {
	if len(recorded) == 0 {
		return nil
	}
	chunks := make([]Chunk, len(recorded))
	for i, chunk := range recorded {
		chunk.Indent += ambient
		chunks[i] = chunk
	}
	return chunks
}
