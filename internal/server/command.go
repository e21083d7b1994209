package server

type Command int

const (
	CmdUnknown Command = iota
	CmdGet
	CmdSet
	CmdDel
	CmdTTL
)

func (c Command) String() string {
	switch c {
	case CmdGet:
		return "get"
	case CmdSet:
		return "set"
	case CmdDel:
		return "del"
	case CmdTTL:
		return "ttl"
	}
	return "unknown"
}

func ParseCmd(cmd string) Command {
	switch cmd {
	case "get":
		return CmdGet
	case "set":
		return CmdSet
	case "del", "rm":
		return CmdDel
	case "ttl":
		return CmdTTL
	}
	return CmdUnknown
}
