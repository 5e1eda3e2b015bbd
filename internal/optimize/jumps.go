package optimize

import "github.com/noodle-lang/noodlec/internal/bytecode"

// ThreadJumps is a peephole pass over an instruction stream. Jumps whose
// target is an unconditional JUMP are retargeted to the end of the chain, and
// unconditional jumps to the next instruction are removed with every address
// operand remapped. It returns the new stream and the number of rewrites.
func ThreadJumps(code []bytecode.Instruction) ([]bytecode.Instruction, int) {
	out := make([]bytecode.Instruction, len(code))
	for i, in := range code {
		out[i] = in
		out[i].Operands = append([]int{}, in.Operands...)
	}

	rewrites := 0
	for {
		threaded := threadChains(out)
		var removed int
		out, removed = dropJumpsToNext(out)
		rewrites += threaded + removed
		if threaded == 0 && removed == 0 {
			return out, rewrites
		}
	}
}

func threadChains(code []bytecode.Instruction) int {
	rewrites := 0
	for i := range code {
		if !code[i].Op.IsJump() {
			continue
		}
		target, _ := code[i].Target()
		final := finalTarget(code, target)
		if final != target {
			code[i].SetTarget(final)
			rewrites++
		}
	}
	return rewrites
}

// finalTarget follows unconditional jumps from target. A chain that loops
// back on itself is left untouched.
func finalTarget(code []bytecode.Instruction, target int) int {
	seen := make(map[int]struct{})
	for t := target; ; {
		if t < 0 || t >= len(code) || code[t].Op != bytecode.JUMP {
			return t
		}
		if _, ok := seen[t]; ok {
			return target
		}
		seen[t] = struct{}{}
		t, _ = code[t].Target()
	}
}

func dropJumpsToNext(code []bytecode.Instruction) ([]bytecode.Instruction, int) {
	drop := make([]bool, len(code))
	removed := 0
	for i, in := range code {
		if in.Op != bytecode.JUMP {
			continue
		}
		if target, _ := in.Target(); target == i+1 {
			drop[i] = true
			removed++
		}
	}
	if removed == 0 {
		return code, 0
	}

	// remap[i] is the new address of old address i; a dropped instruction maps
	// to whatever follows it.
	remap := make([]int, len(code)+1)
	kept := 0
	for i := range code {
		remap[i] = kept
		if !drop[i] {
			kept++
		}
	}
	remap[len(code)] = kept

	out := make([]bytecode.Instruction, 0, kept)
	for i, in := range code {
		if drop[i] {
			continue
		}
		if target, ok := in.Target(); ok && target >= 0 && target <= len(code) {
			in.SetTarget(remap[target])
		}
		out = append(out, in)
	}
	return out, removed
}
