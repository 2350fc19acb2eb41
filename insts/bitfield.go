package insts

import "fmt"

// ExtractField returns bits [hi:lo] of word, right-justified.
// The bit range must satisfy lo <= hi < 32; anything else is a bug in the
// caller and panics.
func ExtractField(word uint32, hi, lo uint) uint32 {
	if lo > hi || hi >= 32 {
		panic(fmt.Sprintf("insts: invalid bit range [%d:%d]", hi, lo))
	}

	width := hi - lo + 1
	if width == 32 {
		return word
	}

	return (word >> lo) & (uint32(1)<<width - 1)
}

// SignExtend sign-extends the low width bits of value to 64 bits by copying
// bit width-1 into all higher positions. The width must be strictly between
// 1 and 64.
func SignExtend(value uint64, width uint) uint64 {
	if width <= 1 || width >= 64 {
		panic(fmt.Sprintf("insts: invalid sign-extension width %d", width))
	}

	shift := 64 - width
	return uint64(int64(value<<shift) >> shift)
}

// SignExtendInt is SignExtend returning the signed interpretation.
func SignExtendInt(value uint64, width uint) int64 {
	return int64(SignExtend(value, width))
}
