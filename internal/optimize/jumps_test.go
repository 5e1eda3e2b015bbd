package optimize_test

import (
	"strings"
	"testing"

	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/optimize"
)

func stream(instrs ...bytecode.Instruction) []bytecode.Instruction {
	return instrs
}

func render(code []bytecode.Instruction) string {
	lines := make([]string, len(code))
	for i, in := range code {
		lines[i] = in.String()
	}
	return strings.Join(lines, "; ")
}

func TestThreadJumps(t *testing.T) {
	tests := []struct {
		name     string
		in       []bytecode.Instruction
		want     string
		rewrites int
	}{
		{
			name: "retargets a chain",
			in: stream(
				bytecode.New(bytecode.JUMP_IF_FALSE, 2),
				bytecode.New(bytecode.NOP),
				bytecode.New(bytecode.JUMP, 4),
				bytecode.New(bytecode.NOP),
				bytecode.New(bytecode.HALT),
			),
			want:     "JUMP_IF_FALSE 4; NOP; JUMP 4; NOP; HALT",
			rewrites: 1,
		},
		{
			name: "drops a jump to the next instruction",
			in: stream(
				bytecode.New(bytecode.PUSH_CONST, 0),
				bytecode.New(bytecode.JUMP, 2),
				bytecode.New(bytecode.HALT),
			),
			want:     "PUSH_CONST 0; HALT",
			rewrites: 1,
		},
		{
			name: "remaps targets after removal",
			in: stream(
				bytecode.New(bytecode.JUMP_IF_FALSE, 3),
				bytecode.New(bytecode.JUMP, 2),
				bytecode.New(bytecode.NOP),
				bytecode.New(bytecode.HALT),
			),
			want:     "JUMP_IF_FALSE 2; NOP; HALT",
			rewrites: 1,
		},
		{
			name: "remaps loop and function addresses",
			in: stream(
				bytecode.New(bytecode.JUMP, 1),
				bytecode.New(bytecode.GET_ITER, 0),
				bytecode.New(bytecode.FOR_ITER, 5),
				bytecode.New(bytecode.POP),
				bytecode.New(bytecode.JUMP, 2),
				bytecode.New(bytecode.MAKE_FUNCTION, 0, 3, 0, 0),
				bytecode.New(bytecode.HALT),
			),
			want:     "GET_ITER 0; FOR_ITER 4; POP; JUMP 1; MAKE_FUNCTION 0 2 0 0; HALT",
			rewrites: 1,
		},
		{
			name: "collapses what threading exposes",
			in: stream(
				bytecode.New(bytecode.JUMP, 2),
				bytecode.New(bytecode.JUMP, 3),
				bytecode.New(bytecode.JUMP, 1),
				bytecode.New(bytecode.HALT),
			),
			want:     "HALT",
			rewrites: 5,
		},
		{
			name: "leaves cycles alone",
			in: stream(
				bytecode.New(bytecode.JUMP, 2),
				bytecode.New(bytecode.JUMP, 0),
				bytecode.New(bytecode.JUMP, 1),
			),
			want:     "JUMP 2; JUMP 0; JUMP 1",
			rewrites: 0,
		},
		{
			name:     "nothing to do",
			in:       stream(bytecode.New(bytecode.NOP), bytecode.New(bytecode.HALT)),
			want:     "NOP; HALT",
			rewrites: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, n := optimize.ThreadJumps(tt.in)
			if got := render(out); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if n != tt.rewrites {
				t.Fatalf("expected %d rewrites, got %d", tt.rewrites, n)
			}
		})
	}
}

func TestThreadJumpsDoesNotMutateInput(t *testing.T) {
	in := stream(
		bytecode.New(bytecode.JUMP_IF_TRUE, 1),
		bytecode.New(bytecode.JUMP, 2),
		bytecode.New(bytecode.HALT),
	)
	before := render(in)

	optimize.ThreadJumps(in)

	if got := render(in); got != before {
		t.Fatalf("input changed from %q to %q", before, got)
	}
}
