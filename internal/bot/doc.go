// package bot connects the relay pipeline and the settings store to Discord.
//
// Every gateway event runs as its own task on a bounded pool. A task gets its own
// timeout and is only cancelled by that timeout or by shutdown.
//
// Messages go through triage first (suppress the preview, or suppress it and reply
// with a mirror link), then through prefix command dispatch. Slash commands and
// prefix commands share one executor; they differ only in how they respond:
//
//   - slash commands defer the interaction and answer with follow-up messages
//   - prefix commands show the typing indicator and reply to the command message
package bot
