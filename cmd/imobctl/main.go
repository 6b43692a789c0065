package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/config"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/prefs"
	"github.com/imobly/go-core/repositories"
	"github.com/imobly/go-core/resolver"
	"github.com/imobly/go-core/session"
	"github.com/imobly/go-core/storage"
	"github.com/imobly/go-core/utils"
	"github.com/imobly/go-core/viewmodel"
)

const appName = "imobctl"

// stack is the same wiring both GUI apps perform at startup.
type stack struct {
	cfg      *config.Config
	session  *session.Manager
	prefs    *prefs.Manager
	auth     repositories.AuthRepository
	resolver *resolver.Resolver
	vm       *viewmodel.PortfolioViewModel
}

func newStack() (*stack, error) {
	cfg := config.Load()

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	sess := session.NewManager(store)
	if err := sess.Restore(); err != nil {
		return nil, err
	}

	api, err := apiclient.New(apiclient.Config{
		BaseURL:       cfg.APIBaseURL,
		Timeout:       cfg.HTTPTimeout,
		Tokens:        sess,
		OnAuthFailure: sess.Invalidate,
	})
	if err != nil {
		return nil, err
	}

	return &stack{
		cfg:      cfg,
		session:  sess,
		prefs:    prefs.NewManager(store),
		auth:     repositories.NewAuthRepository(api),
		resolver: resolver.New(api),
		vm: viewmodel.NewPortfolioViewModel(
			repositories.NewPropertyRepository(api),
			repositories.NewUnitRepository(api),
			repositories.NewTenantRepository(api),
		),
	}, nil
}

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Rental portfolio management from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	utils.InitLogger(appName)

	s, err := newStack()
	if err != nil {
		utils.Logger.Fatal(err)
	}
	ctx := context.Background()

	rootCmd.AddCommand(
		loginCmd(ctx, s),
		logoutCmd(s),
		registerCmd(ctx, s),
		propertiesCmd(ctx, s),
		unitsCmd(ctx, s),
		tenantsCmd(ctx, s),
		cepCmd(ctx, s),
		themeCmd(s),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

/* ------------------------------------------------------------------
   Auth commands
------------------------------------------------------------------ */

func loginCmd(ctx context.Context, s *stack) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(_ *cobra.Command, _ []string) error {
			token, err := s.auth.Login(ctx, dtos.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			if err := s.session.Login(token); err != nil {
				return err
			}
			if ident := s.session.Identity(); ident != nil {
				fmt.Printf("Logged in as %s\n", ident.Email)
			} else {
				fmt.Println("Logged in")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(s *stack) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(_ *cobra.Command, _ []string) error {
			return s.session.Logout()
		},
	}
}

func registerCmd(ctx context.Context, s *stack) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(_ *cobra.Command, _ []string) error {
			user, err := s.auth.Register(ctx, dtos.RegisterRequest{
				Name: name, Email: email, Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Account %d created for %s\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

/* ------------------------------------------------------------------
   Property commands
------------------------------------------------------------------ */

func propertiesCmd(ctx context.Context, s *stack) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "imoveis",
		Aliases: []string{"properties"},
		Short:   "Manage properties",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all properties",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := s.vm.Refresh(ctx); err != nil {
				return err
			}
			for _, p := range s.vm.Properties() {
				fmt.Printf("%d\t%s\t%s, %s - %s\n", p.ID, p.Name, p.Address, p.City, p.State)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a property with its units and tenants",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := s.vm.Select(ctx, id); err != nil {
				return err
			}
			p, ok := s.vm.Focused()
			if !ok {
				return fmt.Errorf("property %d not loaded", id)
			}
			fmt.Printf("%s: %s, %s - %s (CEP %s)\n", p.Name, p.Address, p.City, p.State, resolver.FormatCEP(p.CEP))
			for _, u := range p.Units {
				fmt.Printf("  unidade %s\tR$ %.2f\t%s\n", u.Label, u.Rent, u.Status())
				if u.Tenant != nil {
					fmt.Printf("    locatário: %s (desde %s)\n", u.Tenant.Name, u.Tenant.LeaseStart)
				}
			}
			return nil
		},
	})

	var name, address, city, state, cep string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a property; a complete CEP autofills the address",
		RunE: func(_ *cobra.Command, _ []string) error {
			draft := resolver.AddressDraft{Address: address, City: city, State: state, CEP: cep}
			if cep != "" {
				outcome, err := s.resolver.Submit(ctx, cep, &draft)
				if err != nil {
					return err
				}
				if outcome == resolver.OutcomeNotFound {
					fmt.Println("CEP não encontrado; using the fields as typed")
				}
			}
			created, err := s.vm.CreateProperty(ctx, dtos.PropertyCreateRequest{
				Name:    name,
				Address: draft.Address,
				City:    draft.City,
				State:   draft.State,
				CEP:     resolver.NormalizeCEP(draft.CEP),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created property %d\n", created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "property name")
	addCmd.Flags().StringVar(&address, "address", "", "street address")
	addCmd.Flags().StringVar(&city, "city", "", "city")
	addCmd.Flags().StringVar(&state, "state", "", "two-letter state code")
	addCmd.Flags().StringVar(&cep, "cep", "", "postal code")
	_ = addCmd.MarkFlagRequired("name")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a property and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return s.vm.DeleteProperty(ctx, id)
		},
	})

	return cmd
}

/* ------------------------------------------------------------------
   Unit commands
------------------------------------------------------------------ */

func unitsCmd(ctx context.Context, s *stack) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unidades",
		Aliases: []string{"units"},
		Short:   "Manage units",
	}

	var propertyID int64
	var label string
	var rent float64
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a unit under a property",
		RunE: func(_ *cobra.Command, _ []string) error {
			created, err := s.vm.CreateUnit(ctx, dtos.UnitCreateRequest{
				PropertyID: propertyID,
				Label:      label,
				Rent:       rent,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created unit %d\n", created.ID)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&propertyID, "imovel", 0, "parent property id")
	addCmd.Flags().StringVar(&label, "numero", "", "unit label")
	addCmd.Flags().Float64Var(&rent, "aluguel", 0, "monthly rent")
	_ = addCmd.MarkFlagRequired("imovel")
	_ = addCmd.MarkFlagRequired("numero")
	_ = addCmd.MarkFlagRequired("aluguel")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a unit (its tenant goes with it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return s.vm.DeleteUnit(ctx, id)
		},
	})

	return cmd
}

/* ------------------------------------------------------------------
   Tenant commands
------------------------------------------------------------------ */

func tenantsCmd(ctx context.Context, s *stack) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locatarios",
		Aliases: []string{"tenants"},
		Short:   "Manage tenants",
	}

	var unitID int64
	var name, cpf, phone, email, leaseStart, leaseEnd string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Attach a tenant to an unoccupied unit",
		RunE: func(_ *cobra.Command, _ []string) error {
			created, err := s.vm.CreateTenant(ctx, dtos.TenantCreateRequest{
				UnitID:     unitID,
				Name:       name,
				CPF:        cpf,
				Phone:      phone,
				Email:      email,
				LeaseStart: leaseStart,
				LeaseEnd:   leaseEnd,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created tenant %d\n", created.ID)
			return nil
		},
	}
	addCmd.Flags().Int64Var(&unitID, "unidade", 0, "unit id")
	addCmd.Flags().StringVar(&name, "name", "", "full name")
	addCmd.Flags().StringVar(&cpf, "cpf", "", "tax identifier")
	addCmd.Flags().StringVar(&phone, "phone", "", "phone")
	addCmd.Flags().StringVar(&email, "email", "", "email")
	addCmd.Flags().StringVar(&leaseStart, "inicio", "", "lease start (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&leaseEnd, "fim", "", "lease end (YYYY-MM-DD)")
	_ = addCmd.MarkFlagRequired("unidade")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("cpf")
	_ = addCmd.MarkFlagRequired("inicio")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a tenant from its unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return s.vm.DeleteTenant(ctx, id)
		},
	})

	return cmd
}

/* ------------------------------------------------------------------
   Misc commands
------------------------------------------------------------------ */

func cepCmd(ctx context.Context, s *stack) *cobra.Command {
	return &cobra.Command{
		Use:   "cep <code>",
		Short: "Resolve a postal code to an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var draft resolver.AddressDraft
			outcome, err := s.resolver.Submit(ctx, args[0], &draft)
			if err != nil {
				return err
			}
			switch outcome {
			case resolver.OutcomeIncomplete:
				return fmt.Errorf("%q is not a complete 8-digit CEP", args[0])
			case resolver.OutcomeNotFound:
				fmt.Println("CEP não encontrado")
			default:
				fmt.Printf("%s\n%s - %s\nCEP %s\n", draft.Address, draft.City, draft.State, resolver.FormatCEP(draft.CEP))
			}
			return nil
		},
	}
}

func themeCmd(s *stack) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the persisted UI theme",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(s.prefs.Theme())
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Flip between light and dark",
		RunE: func(_ *cobra.Command, _ []string) error {
			next, err := s.prefs.Toggle()
			if err != nil {
				return err
			}
			fmt.Println(next)
			return nil
		},
	})
	return cmd
}
