package bot

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

func (svc *Service) handleMap(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if svc.maps == nil {
		svc.respondText(s, i, "Map rendering is not configured.")
		return
	}
	if err := svc.deferPublic(s, i); err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to defer interaction response")
		return
	}
	svc.editText(s, i, "Generating image, this could take a couple seconds.")

	world := optionValue(data.Options, "world").StringValue()
	x := int(optionValue(data.Options, "x").IntValue())
	z := int(optionValue(data.Options, "z").IntValue())
	radius := 0
	if opt := optionValue(data.Options, "radius"); opt != nil {
		radius = int(opt.IntValue())
	}

	img, err := svc.maps.Generate(context.Background(), world, radius, x, z)
	if err != nil {
		svc.logger.WithFields(logrus.Fields{
			"world": world,
			"err":   err.Error(),
		}).Error("Unable to generate map image")
		svc.editText(s, i, "Something went wrong generating the map, please try again.")
		return
	}

	content := ""
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Files: []*discordgo.File{
			{
				Name:        "generated.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(img),
			},
		},
	})
	if err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to upload map image")
	}
}
