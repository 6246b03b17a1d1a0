/*
Package config manages configuration parsing and validation for fsmutate.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |                       |
	+-----+-----+ +---+-----+           +-----+-----+
	|   YAML    | |   HCL   |           |   JSON    |
	|  Parser   | | Parser  |           |  Parser   |
	+-----------+ +---------+           +-----------+

🎯 Purpose:
- Loads the settings shared by every campaign a process drives
- Validates them and fills defaults
- Supports multiple config formats

🔄 Flow:
1. Reads configuration from file
2. Picks a parser by extension
3. Validates and normalizes values

⚡ Key Responsibilities:
- Audit log location (log_dir)
- Filesystem client selection (client.root, client.dry_run)
- Driver pacing (driver.rate, driver.burst, driver.parallel)
- Unclassified entry policy and working set exclusions
- Capability lists (access.*) and the metrics listener

🤝 Interfaces:
- Parser: Format-specific parsing, registered from init

📝 Design Philosophy:
Unknown fields are rejected in every format so a typo never silently falls
back to a default. HCL files may read environment variables through env.

🔍 Example:

	cfg, err := config.Load(ctx, "fsmutate.hcl")
	if err != nil {
		return err
	}

	fmt.Println(cfg)
*/
package config
