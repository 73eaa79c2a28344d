package isa

// Register file layout: 32 entries, 5-bit index.
const (
	RegPC  = 0
	RegR1  = 1
	RegAD  = 29
	RegAT  = 30
	RegSP  = 31
	RegMax = 31

	// RegUnresolved is the sentinel used during parsing for a register
	// operand that has not yet been determined.
	RegUnresolved = 0xFF
)

var registerNames = buildRegisterNames()

func buildRegisterNames() map[string]byte {
	m := make(map[string]byte, 32)
	m["pc"] = RegPC
	for i := byte(1); i <= 28; i++ {
		m[regNumberName(i)] = i
	}
	m["ad"] = RegAD
	m["at"] = RegAT
	m["sp"] = RegSP
	return m
}

func regNumberName(i byte) string {
	// "r1".."r28"
	return "r" + itoa(int(i))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// RegisterCode maps a register name (case-sensitive, lowercase: "pc",
// "r1".."r28", "ad", "at", "sp") to its 5-bit index.
func RegisterCode(name string) (byte, bool) {
	code, ok := registerNames[name]
	return code, ok
}

// RegisterName maps a register index back to its canonical name, or ""
// if the index is out of range.
func RegisterName(code byte) string {
	switch {
	case code == RegPC:
		return "pc"
	case code >= RegR1 && code <= 28:
		return regNumberName(code)
	case code == RegAD:
		return "ad"
	case code == RegAT:
		return "at"
	case code == RegSP:
		return "sp"
	default:
		return ""
	}
}
