// Package models defines the domain types shared by the settings store, the
// media relay pipeline and message triage.
//
// The package contains three groups of types:
//
// 1. Persisted state
//   - [UserSettings] : the document kept in the settings file, user id → autofix flag
//
// 2. Media relay
//   - [MediaKind] : which media a command asks for (video, audio, images)
//   - [ResolvedMedia] : direct URLs returned by the resolver for one kind
//   - [LocalMediaFile] : a scratch file owned by exactly one relay invocation
//
// 3. Triage
//   - [Action] : what to do with an incoming chat message
//   - [Decision] : the action plus the reply text when one is posted
package models
