/*
Package operation implements bulk mutation campaigns over a filesystem working set.

	+-------------+
	|  Registry   |
	| (Dispatch)  |
	+------+------+
	       |
	+------+------+      +-------------+
	|  Campaign   +----->+  Audit Log  |
	| (One Step)  |      | (Append)    |
	+------+------+      +-------------+
	       |
	+------+------+
	|   Mutator   |
	|  (Variant)  |
	+-------------+

🎯 Purpose:
- Turns a kind name plus a working set into a campaign
- Applies exactly one mutation per Advance call
- Leaves pacing to an external driver (Runner)

🔄 Flow:
1. Dispatch resolves the kind and builds its Mutator from parameters
2. The working set is filtered, deduplicated and snapshotted
3. Each Advance classifies the cached candidate, mutates it, appends an
   audit row, records the path and moves the cursor
4. The campaign is exhausted once the cursor passes the last entry

⚡ Key Responsibilities:
- Serialized step transitions per campaign
- Audit-before-record ordering
- Non-blocking progress reads

🤝 Interfaces:
- Operation: HasMore, Advance, Kind, Snapshot
- Mutator: the single call a mutation kind contributes
- fsclient.Client: performs the mutation against the live filesystem

📝 Design Philosophy:
Variants only know how to mutate one entry. Queueing, locking, auditing and
cursor management live once in Campaign, so adding a kind means registering
one Spec. A failed mutation is an outcome, not an error: it is audited,
counted and the campaign moves on. No entry is ever attempted twice.

Campaigns touching overlapping paths are not coordinated with each other.

🔍 Example:

	c, err := operation.Dispatch(ctx, operation.Request{
		Kind:    "setStoragePolicy",
		Owner:   "alice",
		LogDir:  "/var/log/fsmutate",
		Client:  client,
		Entries: entries,
		Params:  operation.Params{"policy": "COLD"},
	})
	if err != nil {
		return err
	}
	defer c.Close()

	err = operation.NewRunner(operation.RunnerOptions{Rate: 50}).Run(ctx, c)
*/
package operation
