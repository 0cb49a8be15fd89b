package rpc

const (
	MethodInitialize     = "initialize"
	MethodInitialized    = "initialized"
	MethodShutdown       = "shutdown"
	MethodExit           = "exit"
	MethodDidOpen        = "textDocument/didOpen"
	MethodDidClose       = "textDocument/didClose"
	MethodSelectionRange = "textDocument/selectionRange"

	methodLogMessage         = "window/logMessage"
	methodShowMessage        = "window/showMessage"
	methodPublishDiagnostics = "textDocument/publishDiagnostics"
	methodWorkDoneProgress   = "window/workDoneProgress/create"
	methodRegisterCapability = "client/registerCapability"
	methodProgress           = "$/progress"
	methodWorkspaceConfig    = "workspace/configuration"
)
