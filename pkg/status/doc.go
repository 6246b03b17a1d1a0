/*
Package status tracks and renders the progress of running campaigns.

	            +-------------+
	            |   Tracker   |
	            | (Registry)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+------+
	| Reporter  |           | Formatter |
	| (Campaign)|           |  (UI/UX)  |
	+-----------+           +-----------+

🎯 Purpose:
- Keeps a registry of the campaigns a process is driving
- Exposes point-in-time progress without blocking a running step
- Renders progress for the console

🔄 Flow:
1. The driver registers each campaign it starts
2. Campaigns publish progress at the end of every step
3. Status readers take snapshots at any time

⚡ Key Responsibilities:
- Thread-safe campaign registry
- Immutable progress snapshots
- Progress formatting

🤝 Interfaces:
- Reporter: Anything with an id and a non-blocking Snapshot
- Formatter: Renders progress and errors

📝 Design Philosophy:
A snapshot must never wait for a mutation in flight. Campaigns keep their
progress behind a lock that is separate from the one guarding a step, so a
status page stays responsive while the backing filesystem is slow.

🔍 Example:

	tracker := status.NewTracker()
	tracker.Track(campaign)

	for _, p := range tracker.List() {
		fmt.Println(status.NewDefaultFormatter().FormatSnapshot(p))
	}
*/
package status
