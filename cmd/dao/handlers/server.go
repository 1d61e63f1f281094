package handlers

import (
	"fmt"
	"strings"

	"github.com/concave-dev/dao/cmd/dao/display"
	"github.com/concave-dev/dao/internal/registry"
	"github.com/concave-dev/dao/internal/result"
	"github.com/concave-dev/dao/internal/validate"
)

func serverOperations() []registry.Descriptor[*Session] {
	return []registry.Descriptor[*Session]{
		{
			Name:  "server_list",
			Short: "List servers, using provided filters",
			Usage: []string{
				"Example:",
				"  dao server-list --rack PHX2-A1 --status Validating --detailed",
			},
			Args: []registry.ArgSpec{
				{Name: "--rack", Help: "Filter output by server rack name. An example: dao server-list --rack PHX2-A1"},
				{Name: "--sku", Help: "Filter output by server sku name. An example: dao server-list --sku Red"},
				{Name: "--cluster", Help: "Filter output by server cluster. An example: dao server-list --cluster infra"},
				{Name: "--serial", Kind: registry.StringArray, Help: "Filter output by serial numbers. Repeatable."},
				{Name: "--ip", Kind: registry.StringArray, Help: "Filter output by ip address. Repeatable."},
				{Name: "--mac", Kind: registry.StringArray, Help: "Filter output by mac address. Repeatable."},
				{Name: "--name", Kind: registry.StringArray, Help: "Filter output by server names. Repeatable."},
				{Name: "--status", Kind: registry.StringArray, Help: "Filter output by server statuses, e.g. Validating. Repeatable."},
				{Name: "--detailed", Kind: registry.Bool, Help: "Extended output, including server network interfaces"},
			},
			Handler: serverList,
		},
		{
			Name:  "server_delete",
			Short: "Delete server",
			Args: []registry.ArgSpec{
				{Name: "id", Help: "Server ID"},
				{Name: "name", Help: "Server name"},
				{Name: "serial", Help: "Server serial number"},
			},
			Handler: serverDelete,
		},
		{
			Name:  "server_stop",
			Short: "Stop S0->S1->S2 state transition",
			Usage: []string{
				"Two requirements for arguments used with this command:",
				"  At least one filtering argument should be used",
				"  Argument --request-id is to be used unless --force is used",
			},
			Args: []registry.ArgSpec{
				{Name: "--name", Kind: registry.StringArray, Help: "Filtering argument. Defines filter by server name. Repeatable."},
				{Name: "--rack", Help: "Filtering parameter. Specify rack name to be used as a filter."},
				{Name: "--request-id", Help: `Filtering argument. ID of the transaction to stop. Can be got using dao server-list command, field "lock_id".`},
				{Name: "--force", Kind: registry.Bool, Help: "Allows using server-stop command without request-id option."},
			},
			Handler: serverStop,
		},
		{
			Name:  "discover",
			Short: "Manually trigger server auto discovery",
			Args: []registry.ArgSpec{
				{Name: "worker", Help: "Target worker"},
				{Name: "ip", Help: "Server BMC IP address"},
				{Name: "mac", Help: "Server BMC MAC address in format XX:XX:XX:XX:XX:XX"},
				{Name: "--force", Kind: registry.Bool, Help: "ignore discovery-disable option"},
			},
			Handler: discover,
		},
		{
			Name:  "discovery_cache_reset",
			Short: "Manually reset discovery cache",
			Args: []registry.ArgSpec{
				{Name: "worker", Help: "Target worker"},
				{Name: "--mac", Help: "Server BMC MAC address in format XX:XX:XX:XX:XX:XX"},
			},
			Handler: discoveryCacheReset,
		},
	}
}

func serverList(s *Session, args registry.Args) error {
	servers, err := s.call("servers_list", nil, map[string]any{
		"rack_name":    optional(args.String("rack")),
		"cluster_name": optional(args.String("cluster")),
		"serials":      args.Strings("serial"),
		"macs":         args.Strings("mac"),
		"ips":          args.Strings("ip"),
		"names":        args.Strings("name"),
		"from_status":  args.Strings("status"),
		"sku_name":     optional(args.String("sku")),
		"detailed":     args.Bool("detailed"),
	})
	if err != nil {
		return err
	}

	if err := flattenInterfaces(servers, len(s.Inv.Fields) > 0, s.Inv.Format); err != nil {
		return err
	}
	return s.print(servers)
}

// flattenInterfaces moves each server's "interfaces" list onto the server
// itself, one key per interface. With a filter the key is the interface name
// lower-cased without spaces so paths like "eth0.mac" work; otherwise it is
// "interface:<name>", rendered on one line in print format.
func flattenInterfaces(servers result.Value, filtered bool, format string) error {
	byName, ok := servers.(*result.Mapping)
	if !ok {
		return nil
	}

	for _, id := range byName.Keys() {
		v, _ := byName.Get(id)
		server, ok := v.(*result.Mapping)
		if !ok {
			continue
		}
		removed, ok := server.Delete("interfaces")
		if !ok {
			continue
		}
		ifaces, ok := removed.(result.Sequence)
		if !ok {
			continue
		}

		for _, entry := range ifaces {
			iface, ok := entry.(*result.Mapping)
			if !ok {
				continue
			}
			name := interfaceName(iface)

			if filtered {
				server.Set(strings.ReplaceAll(strings.ToLower(name), " ", ""), iface)
				continue
			}

			var rendered result.Value = iface
			if format == display.FormatPrint {
				line, err := display.Inline(iface)
				if err != nil {
					return fmt.Errorf("failed to render interface %s: %w", name, err)
				}
				rendered = result.String(line)
			}
			server.Set("interface:"+name, rendered)
		}
	}
	return nil
}

func interfaceName(iface *result.Mapping) string {
	v, ok := iface.Get("name")
	if !ok {
		return ""
	}
	if s, ok := v.(result.Scalar); ok && s.V != nil {
		return fmt.Sprint(s.V)
	}
	return ""
}

func serverDelete(s *Session, args registry.Args) error {
	return s.run("server_delete", nil, map[string]any{
		"sid":    args.String("id"),
		"serial": args.String("serial"),
		"name":   args.String("name"),
	})
}

func serverStop(s *Session, args registry.Args) error {
	names := args.Strings("name")
	rack := args.String("rack")
	requestID := args.String("request-id")
	force := args.Bool("force")

	if len(names) == 0 && rack == "" && requestID == "" {
		return &validate.InputError{Reason: "at least one of --name, --rack or --request-id is required"}
	}
	if !force && requestID == "" {
		return &validate.InputError{Flag: "--request-id", Reason: "is required unless --force is used"}
	}

	return s.run("server_stop", nil, map[string]any{
		"request_id": optional(requestID),
		"names":      names,
		"rack_name":  optional(rack),
		"force":      force,
	})
}

func discover(s *Session, args registry.Args) error {
	if err := requireNames(args, "worker"); err != nil {
		return err
	}

	ip, err := validate.NormalizeIP("ip", args.String("ip"))
	if err != nil {
		return err
	}
	mac := args.String("mac")
	if err := validate.ValidateMAC("mac", mac); err != nil {
		return err
	}

	return s.run("dhcp_hook", nil, map[string]any{
		"mac":         mac,
		"ip":          ip,
		"worker_name": args.String("worker"),
		"force":       args.Bool("force"),
	})
}

func discoveryCacheReset(s *Session, args registry.Args) error {
	if err := requireNames(args, "worker"); err != nil {
		return err
	}

	mac := args.String("mac")
	if mac != "" {
		if err := validate.ValidateMAC("--mac", mac); err != nil {
			return err
		}
	}

	return s.run("discovery_cache_reset", nil, map[string]any{
		"worker_name": args.String("worker"),
		"mac":         optional(mac),
	})
}
