package tweak

import tea "github.com/charmbracelet/bubbletea"

// UpdateMsg is the "update" signal: a module asks the host to refresh it.
// The host routes it back to the emitting panel.
type UpdateMsg struct {
	Module  string
	Payload string
}

// CallMsg is the "call" signal: a module invokes Method on the Target
// module. The host activates the target and forwards the call if the
// target panel implements Caller.
type CallMsg struct {
	From   string
	Target string
	Method string
	Args   any
}

// Caller is implemented by panels that accept calls from other modules.
type Caller interface {
	HandleCall(method string, args any) tea.Cmd
}

// EmitUpdate returns a command delivering an UpdateMsg from the module.
func (b *Base) EmitUpdate(payload string) tea.Cmd {
	msg := UpdateMsg{Module: b.info.Name, Payload: payload}
	return func() tea.Msg { return msg }
}

// EmitCall returns a command delivering a CallMsg from the module.
func (b *Base) EmitCall(target, method string, args any) tea.Cmd {
	msg := CallMsg{From: b.info.Name, Target: target, Method: method, Args: args}
	return func() tea.Msg { return msg }
}

// Addressed is implemented by messages meant for one module's panel. The
// host delivers them to that panel even when it is not the active one.
type Addressed interface {
	Addressee() string
}

// Addressee routes the update back to the emitting module.
func (m UpdateMsg) Addressee() string { return m.Module }
