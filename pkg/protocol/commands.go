package protocol

// Commands understood by the server. Outbound text is sent verbatim, so these
// helpers only build strings.
const (
	CmdWho          = "/who"
	CmdExit         = "/exit"
	CmdNick         = "/nick"
	CmdJoin         = "/join"
	CmdLeave        = "/leave"
	CmdList         = "/list"
	CmdCreate       = "/create"
	CmdCreateSecret = "/create_secret"
	CmdDelete       = "/delete"
)

// Who requests the member list of the current room.
func Who() string { return CmdWho }

// Exit announces a graceful disconnect.
func Exit() string { return CmdExit }

// Leave returns to the lobby.
func Leave() string { return CmdLeave }

// List requests the visible rooms.
func List() string { return CmdList }

// Nick changes the user's nickname.
func Nick(name string) string { return withArg(CmdNick, name) }

// Join moves the user into room.
func Join(room string) string { return withArg(CmdJoin, room) }

// Create creates room and joins it.
func Create(room string) string { return withArg(CmdCreate, room) }

// CreateSecret creates a room hidden from /list and joins it.
func CreateSecret(room string) string { return withArg(CmdCreateSecret, room) }

// Delete removes a room created by the user.
func Delete(room string) string { return withArg(CmdDelete, room) }

func withArg(cmd, arg string) string {
	if arg == "" {
		return cmd
	}
	return cmd + " " + arg
}
