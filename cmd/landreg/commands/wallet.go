package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"landreg/internal/app"
	"landreg/internal/crypto"
	"landreg/internal/domain"
)

var errPassphraseRequired = errors.New("passphrase required (-p or LANDREG_PASSPHRASE)")

type walletView struct {
	Address     domain.Address     `json:"address" yaml:"address"`
	Fingerprint domain.Fingerprint `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Mnemonic    string             `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
}

func walletCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the local signing wallet",
	}
	cmd.AddCommand(walletInitCmd(c), walletImportCmd(c), walletAddressCmd(c))
	return cmd
}

// keyring opens the keystore under the configured home, creating the
// directory if needed.
func (c *cli) keyring() (domain.KeyringService, domain.WalletKeyStore, error) {
	if err := os.MkdirAll(c.cfg.Home, 0o700); err != nil {
		return nil, nil, err
	}
	kr, keys := app.NewKeyring(c.cfg.Home)
	return kr, keys, nil
}

func walletInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a wallet key and store it encrypted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.Passphrase == "" {
				return errPassphraseRequired
			}
			kr, _, err := c.keyring()
			if err != nil {
				return err
			}
			mnemonic, addr, err := kr.CreateWallet(c.cfg.Passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Wallet created. Write the mnemonic down; it is the only backup of this key.")
			return render(cmd.OutOrStdout(), c.opts.output, walletView{Address: addr, Mnemonic: mnemonic})
		},
	}
}

func walletImportCmd(c *cli) *cobra.Command {
	var mnemonic string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store an existing BIP-39 mnemonic as the wallet key",
		Long:  "Store an existing BIP-39 mnemonic as the wallet key. Without --mnemonic it is read from the first line of stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.Passphrase == "" {
				return errPassphraseRequired
			}
			if mnemonic == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read mnemonic: %w", err)
				}
				mnemonic = strings.TrimSpace(line)
			}
			kr, _, err := c.keyring()
			if err != nil {
				return err
			}
			addr, err := kr.ImportWallet(c.cfg.Passphrase, mnemonic)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.opts.output, walletView{Address: addr})
		},
	}
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "mnemonic to import (default: read from stdin)")
	return cmd
}

func walletAddressCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the wallet address",
		Long: "Print the wallet address. With a passphrase the key is also unlocked, " +
			"which checks the passphrase and adds the public key fingerprint.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kr, keys, err := c.keyring()
			if err != nil {
				return err
			}
			addr, ok, err := kr.WalletAddress()
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no wallet found (landreg wallet init)")
			}
			view := walletView{Address: addr}
			if c.cfg.Passphrase != "" {
				key, err := keys.LoadWalletKey(c.cfg.Passphrase)
				if err != nil {
					return err
				}
				signer, err := crypto.SignerFromMnemonic(key.Mnemonic)
				if err != nil {
					return err
				}
				defer signer.Close()
				view.Fingerprint = crypto.Fingerprint(signer.PublicKey())
			}
			return render(cmd.OutOrStdout(), c.opts.output, view)
		},
	}
}
