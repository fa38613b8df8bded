/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/viper"
)

// sendNotes emails plain-text notes through SendGrid.
func sendNotes(fromAddress, toAddress, subject, body string) error {
	from := mail.NewEmail("chart-tools", fromAddress)
	to := mail.NewEmail(toAddress, toAddress)
	message := mail.NewSingleEmail(from, subject, to, body, "<pre>"+html.EscapeString(body)+"</pre>")
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendNotes: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendNotes: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
